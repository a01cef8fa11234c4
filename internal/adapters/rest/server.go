// Package rest is the HTTP front end of the board. It serves the JSON API,
// the static web UI and the MCP HTTP transports from one echo instance.
package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/adapters/mcptools"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/ports/primary"
)

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the HTTP front end.
type Options struct {
	// DefaultColumnID is used by POST /api/tasks when the body names no column.
	DefaultColumnID int64
	// PublicDir holds index.html and the files served under /public/.
	// Empty serves a fallback page at /.
	PublicDir string
	// MCP mounts /mcp, /sse and /message when set.
	MCP *mcptools.HTTPHandlers
	// Store backs /healthz. Nil reports healthy.
	Store  Pinger
	Logger logrus.FieldLogger
}

// New builds the echo instance with every route registered.
func New(service primary.BoardService, opts Options) *echo.Echo {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.DefaultColumnID == 0 {
		opts.DefaultColumnID = 1
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(requestLogger(opts.Logger))
	e.Use(tagRequest)

	Register(e, service, opts)
	return e
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, service primary.BoardService, opts Options) {
	h := &handlers{
		service:         service,
		defaultColumnID: opts.DefaultColumnID,
		logger:          opts.Logger,
	}

	e.GET("/api/tasks", h.listTasks)
	e.POST("/api/tasks", h.createTask)
	e.GET("/api/tasks/:task_id", h.getTask)
	e.PATCH("/api/tasks/:task_id", h.updateTask)
	e.PUT("/api/tasks/:task_id", h.moveTask)
	e.PUT("/api/tasks/", h.moveTask)
	e.DELETE("/api/tasks/:task_id", h.deleteTask)
	e.GET("/api/columns", h.listColumns)
	e.GET("/api/board", h.getBoard)
	e.GET("/healthz", healthz(opts.Store))

	registerStatic(e, opts.PublicDir)

	if opts.MCP != nil {
		e.Any("/mcp", echo.WrapHandler(opts.MCP.Streamable))
		e.GET("/sse", echo.WrapHandler(opts.MCP.SSE))
		e.POST("/message", echo.WrapHandler(opts.MCP.Message))
	}
}

// tagRequest copies the actor and request ID into the request context.
func tagRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := ctxutil.WithActor(req.Context(), ctxutil.ActorREST)
		ctx = ctxutil.WithRequestID(ctx, c.Response().Header().Get(echo.HeaderXRequestID))
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func healthz(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := store.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}

func requestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}
