// Package ctxutil carries request metadata through context.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Front ends that act on the board.
const (
	ActorCLI  = "cli"
	ActorMCP  = "mcp"
	ActorREST = "rest"
)

type actorKey struct{}

type requestIDKey struct{}

// WithActor returns a context naming the front end that issued the request.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns a context carrying the transport's request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// Fields returns the metadata set on ctx as log fields.
func Fields(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{}
	if actor := ActorFromContext(ctx); actor != "" {
		fields["actor"] = actor
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}
