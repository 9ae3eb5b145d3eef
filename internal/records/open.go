package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/helix/migrations"
	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/kv"
	"github.com/JaimeStill/helix/pkg/lifecycle"
	"github.com/JaimeStill/helix/pkg/storage"
)

// Backends carries the infrastructure systems an engine may need. Only the
// one matching the configured engine must be set.
type Backends struct {
	Database database.System
	KV       kv.System
	Storage  storage.System
}

// Open builds the Store for cfg.Engine. Relational engines with auto-migrate
// enabled register a startup hook that applies pending migrations.
func Open(
	cfg *Config,
	backends Backends,
	lc *lifecycle.Coordinator,
	logger *slog.Logger,
) (Store, error) {
	logger = logger.With("system", "records", "engine", cfg.Engine)

	switch cfg.Engine {
	case EngineMemory:
		return NewMemory(), nil

	case EnginePostgres, EngineSQLite:
		db := backends.Database
		if db == nil {
			return nil, fmt.Errorf("%s engine requires a database", cfg.Engine)
		}
		if db.Driver() != cfg.Engine {
			return nil, fmt.Errorf("%s engine given %s database", cfg.Engine, db.Driver())
		}

		if cfg.Migrate() {
			lc.OnStartup("migrations", func(ctx context.Context) error {
				if err := migrations.Up(ctx, db.Connection(), db.Driver()); err != nil {
					logger.Error("schema migration failed", "error", err)
					return err
				}
				logger.Info("schema up to date")
				return nil
			})
		}
		return NewSQL(db.Connection(), db.Driver()), nil

	case EngineBadger:
		if backends.KV == nil {
			return nil, fmt.Errorf("badger engine requires a kv store")
		}
		return NewBadger(backends.KV.DB()), nil

	case EngineBlob:
		if backends.Storage == nil {
			return nil, fmt.Errorf("blob engine requires blob storage")
		}
		return NewBlob(backends.Storage), nil

	default:
		return nil, fmt.Errorf("unsupported engine %q", cfg.Engine)
	}
}
