package mcptools

import (
	"context"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/ports/primary"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "taskboard"

// NewServer creates an MCP server with every board tool registered.
func NewServer(service primary.BoardService, version string, logger logrus.FieldLogger) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.AddTools(NewHandlers(service, logger).Tools()...)
	return s
}

// ServeStdio serves s over the given streams until ctx is done or in closes.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

// HTTPHandlers are the HTTP transports for one MCP server.
type HTTPHandlers struct {
	// Streamable serves the streamable HTTP transport (mounted at /mcp).
	Streamable http.Handler
	// SSE and Message serve the SSE transport (mounted at /sse and /message).
	SSE     http.Handler
	Message http.Handler
}

// NewHTTPHandlers builds the streamable HTTP and SSE transports for s.
func NewHTTPHandlers(s *server.MCPServer) HTTPHandlers {
	sse := server.NewSSEServer(s)
	return HTTPHandlers{
		Streamable: server.NewStreamableHTTPServer(s),
		SSE:        sse.SSEHandler(),
		Message:    sse.MessageHandler(),
	}
}

const instructions = `Kanban task board. Columns are fixed; tasks live in exactly one column at a
1-based position. Use get_board for the full picture, create_task to append a task,
move_task to reorder or change column, update_task for title/description/priority
and delete_task to remove. Tasks are addressed by their label (e.g. DEV-101).`
