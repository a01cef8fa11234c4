// Package wire provides dependency injection for the taskboard application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mark3labs/mcp-go/server"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/taskboard/internal/adapters/cli"
	"github.com/example/taskboard/internal/adapters/mcptools"
	"github.com/example/taskboard/internal/adapters/rediscache"
	"github.com/example/taskboard/internal/adapters/rest"
	"github.com/example/taskboard/internal/adapters/sqlstore"
	"github.com/example/taskboard/internal/app"
	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/logging"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
	"github.com/example/taskboard/internal/version"
)

const redisConnectTimeout = 3 * time.Second

var (
	configPath string

	cfg          *config.Config
	logger       *logrus.Logger
	database     *sql.DB
	dialect      db.Dialect
	redisClient  *redis.Client
	boardService primary.BoardService
	mcpServer    *server.MCPServer

	configOnce sync.Once
	configErr  error
	once       sync.Once
	initErr    error
)

// SetConfigPath selects the config file. It must be called before any accessor.
func SetConfigPath(path string) {
	configPath = path
}

// ConfigPath returns the config file in use.
func ConfigPath() string {
	if configPath == "" {
		return config.DefaultPath()
	}
	return configPath
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	configOnce.Do(loadConfig)
	return cfg, configErr
}

// Logger returns the process logger. Before the configuration loads it
// falls back to the logrus standard logger.
func Logger() *logrus.Logger {
	configOnce.Do(loadConfig)
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}

// Init opens the store and builds every service. Accessors call it lazily;
// commands call it directly to surface the error.
func Init() error {
	once.Do(initServices)
	return initErr
}

// BoardService returns the singleton BoardService instance.
func BoardService() primary.BoardService {
	mustInit()
	return boardService
}

// MCPServer returns the singleton MCP server with every board tool registered.
func MCPServer() *server.MCPServer {
	mustInit()
	return mcpServer
}

// Database returns the shared database handle and its dialect.
func Database() (*sql.DB, db.Dialect) {
	mustInit()
	return database, dialect
}

// HTTPServer builds the echo instance serving the REST API, static assets
// and the MCP HTTP transports.
func HTTPServer() *echo.Echo {
	mustInit()
	handlers := mcptools.NewHTTPHandlers(mcpServer)
	return rest.New(boardService, rest.Options{
		DefaultColumnID: cfg.Tasks.DefaultColumnID,
		PublicDir:       cfg.Server.PublicDir,
		MCP:             &handlers,
		Store:           database,
		Logger:          logger,
	})
}

// BoardAdapter returns a new BoardAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func BoardAdapter() *cliadapter.BoardAdapter {
	return BoardAdapterWithOutput(os.Stdout)
}

// BoardAdapterWithOutput returns a new BoardAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func BoardAdapterWithOutput(out io.Writer) *cliadapter.BoardAdapter {
	mustInit()
	return cliadapter.NewBoardAdapter(boardService, out)
}

// Close releases the store and cache connections.
func Close() error {
	var firstErr error
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			firstErr = err
		}
	}
	if database != nil {
		if err := database.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func mustInit() {
	if err := Init(); err != nil {
		Logger().Fatalf("failed to initialize: %v", err)
	}
}

func loadConfig() {
	cfg, configErr = config.Load(ConfigPath())
	if configErr != nil {
		return
	}
	logger, configErr = logging.New(cfg.Log)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, err := Config()
	if err != nil {
		initErr = err
		return
	}
	ctx := context.Background()

	database, dialect, err = db.Open(ctx, c.Database.Driver, c.Database.DSN, logger)
	if err != nil {
		initErr = err
		return
	}
	logger.WithFields(logrus.Fields{"driver": c.Database.Driver, "dialect": dialect}).Debug("store opened")

	ttl, err := c.GetCacheTTL()
	if err != nil {
		initErr = err
		return
	}
	cache := newCache(ctx, c.Cache.RedisURL)

	// Create repository adapters (secondary ports) with the injected DB
	taskRepo := sqlstore.NewTaskRepository(database, dialect)
	columnRepo := sqlstore.NewColumnRepository(database, dialect)
	transactor := sqlstore.NewTransactor(database, dialect)

	executor := app.NewEffectExecutor(taskRepo, logger)

	boardService = app.NewBoardService(taskRepo, columnRepo, transactor, cache, executor, app.BoardServiceOptions{
		IDPrefix: c.Tasks.IDPrefix,
		CacheTTL: ttl,
		Logger:   logger,
	})
	mcpServer = mcptools.NewServer(boardService, version.Short(), logger)
}

// newCache connects to Redis when a URL is configured. An unreachable server
// is logged and the board runs uncached.
func newCache(ctx context.Context, url string) secondary.BoardCache {
	if url == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	client, err := rediscache.NewClient(ctx, url)
	if err != nil {
		logger.WithError(err).Warn("board cache disabled")
		return nil
	}
	redisClient = client
	return rediscache.NewBoardCache(client, "")
}
