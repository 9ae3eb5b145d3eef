package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/helix/internal/records"
	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/kv"
	"github.com/JaimeStill/helix/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvHelixEnv             = "HELIX_ENV"
	EnvHelixLogLevel        = "HELIX_LOG_LEVEL"
	EnvHelixShutdownTimeout = "HELIX_SHUTDOWN_TIMEOUT"
	EnvHelixVersion         = "HELIX_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "HELIX_DB_HOST",
	Port:            "HELIX_DB_PORT",
	Name:            "HELIX_DB_NAME",
	User:            "HELIX_DB_USER",
	Password:        "HELIX_DB_PASSWORD",
	SSLMode:         "HELIX_DB_SSL_MODE",
	Path:            "HELIX_DB_PATH",
	BusyTimeout:     "HELIX_DB_BUSY_TIMEOUT",
	MaxOpenConns:    "HELIX_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HELIX_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HELIX_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HELIX_DB_CONN_TIMEOUT",
}

var recordsEnv = &records.Env{
	Engine:      "HELIX_RECORDS_ENGINE",
	AutoMigrate: "HELIX_RECORDS_AUTO_MIGRATE",
}

var kvEnv = &kv.Env{
	Path:           "HELIX_KV_PATH",
	InMemory:       "HELIX_KV_IN_MEMORY",
	SyncWrites:     "HELIX_KV_SYNC_WRITES",
	GCInterval:     "HELIX_KV_GC_INTERVAL",
	GCDiscardRatio: "HELIX_KV_GC_DISCARD_RATIO",
}

var storageEnv = &storage.Env{
	ContainerName:    "HELIX_STORAGE_CONTAINER_NAME",
	ConnectionString: "HELIX_STORAGE_CONNECTION_STRING",
	AccountURL:       "HELIX_STORAGE_ACCOUNT_URL",
	MaxListSize:      "HELIX_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for the Helix service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Records         records.Config  `toml:"records"`
	Database        database.Config `toml:"database"`
	KV              kv.Config       `toml:"kv"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	LogLevel        string          `toml:"log_level"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the HELIX_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvHelixEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Records.Merge(&overlay.Records)
	c.Database.Merge(&overlay.Database)
	c.KV.Merge(&overlay.KV)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
}

// Finalize applies defaults, environment overrides, and validation. Only the
// backend section the records engine uses is finalized; a relational engine
// also selects the database driver.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Records.Finalize(recordsEnv); err != nil {
		return fmt.Errorf("records: %w", err)
	}

	switch c.Records.Engine {
	case records.EnginePostgres, records.EngineSQLite:
		c.Database.Driver = c.Records.Engine
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	case records.EngineBadger:
		if err := c.KV.Finalize(kvEnv); err != nil {
			return fmt.Errorf("kv: %w", err)
		}
	case records.EngineBlob:
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}

	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvHelixLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHelixShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvHelixVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvHelixEnv); env != "" {
		overlay := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(overlay); err == nil {
			return overlay
		}
	}
	return ""
}
