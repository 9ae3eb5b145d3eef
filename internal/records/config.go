package records

import (
	"fmt"
	"os"
	"strconv"
)

// Storage engines.
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
	EngineBadger   = "badger"
	EngineBlob     = "blob"
)

// Config selects the Store engine.
type Config struct {
	Engine      string `toml:"engine"`
	AutoMigrate *bool  `toml:"auto_migrate"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Engine      string
	AutoMigrate string
}

// Relational reports whether the engine is backed by database/sql.
func (c *Config) Relational() bool {
	return c.Engine == EnginePostgres || c.Engine == EngineSQLite
}

// Migrate reports whether pending schema migrations run at startup.
// Defaults to true.
func (c *Config) Migrate() bool {
	return c.AutoMigrate == nil || *c.AutoMigrate
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Engine != "" {
		c.Engine = overlay.Engine
	}
	if overlay.AutoMigrate != nil {
		c.AutoMigrate = overlay.AutoMigrate
	}
}

func (c *Config) loadDefaults() {
	if c.Engine == "" {
		c.Engine = EngineSQLite
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Engine != "" {
		if v := os.Getenv(env.Engine); v != "" {
			c.Engine = v
		}
	}
	if env.AutoMigrate != "" {
		if v := os.Getenv(env.AutoMigrate); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.AutoMigrate = &b
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Engine {
	case EngineMemory, EnginePostgres, EngineSQLite, EngineBadger, EngineBlob:
		return nil
	default:
		return fmt.Errorf("unsupported engine %q", c.Engine)
	}
}
