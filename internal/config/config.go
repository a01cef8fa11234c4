package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/taskboard/internal/db"
)

// Config represents the taskboard configuration file.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Tasks    TasksConfig    `yaml:"tasks"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3, sqlite or pgx
	DSN    string `yaml:"dsn"`    // file path for SQLite, connection URL for Postgres
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	PublicDir string `yaml:"public_dir,omitempty"`
}

// CacheConfig configures the Redis board cache. An empty URL disables it.
type CacheConfig struct {
	RedisURL string `yaml:"redis_url,omitempty"`
	TTL      string `yaml:"ttl"`
}

// TasksConfig holds task defaults.
type TasksConfig struct {
	IDPrefix        string `yaml:"id_prefix"`
	DefaultColumnID int64  `yaml:"default_column_id"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: db.DriverSQLite3,
			DSN:    defaultDSN(),
		},
		Server: ServerConfig{
			Addr: ":8787",
		},
		Cache: CacheConfig{
			TTL: "30s",
		},
		Tasks: TasksConfig{
			IDPrefix:        "DEV",
			DefaultColumnID: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.taskboard/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskboard", "config.yaml")
	}
	return filepath.Join(home, ".taskboard", "config.yaml")
}

// Load reads configuration from a YAML file and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("TASKBOARD_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("TASKBOARD_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("TASKBOARD_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TASKBOARD_PUBLIC_DIR"); v != "" {
		c.Server.PublicDir = v
	}
	if v := os.Getenv("TASKBOARD_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("TASKBOARD_CACHE_TTL"); v != "" {
		c.Cache.TTL = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("TASKBOARD_ID_PREFIX"); v != "" {
		c.Tasks.IDPrefix = v
	}
	if v := os.Getenv("TASKBOARD_DEFAULT_COLUMN"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_DEFAULT_COLUMN: %w", err)
		}
		c.Tasks.DefaultColumnID = id
	}
	return nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case db.DriverSQLite3, db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want %s, %s or %s)",
			c.Database.Driver, db.DriverSQLite3, db.DriverSQLite, db.DriverPostgres)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (want text or json)", c.Log.Format)
	}
	if c.Tasks.DefaultColumnID < 1 {
		return fmt.Errorf("default_column_id must be positive, got %d", c.Tasks.DefaultColumnID)
	}
	return nil
}

// GetCacheTTL parses the cache TTL. Empty means 30s and zero disables the cache.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

func defaultDSN() string {
	path, err := db.GetDBPath()
	if err != nil {
		return filepath.Join(".taskboard", "taskboard.db")
	}
	return path
}
