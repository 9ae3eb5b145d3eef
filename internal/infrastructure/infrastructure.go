// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, metrics, the classification store
// and its backend) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/helix/internal/config"
	"github.com/JaimeStill/helix/internal/records"
	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/kv"
	"github.com/JaimeStill/helix/pkg/lifecycle"
	"github.com/JaimeStill/helix/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Only the backend the configured records engine uses is created; the
// others stay nil.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *prometheus.Registry
	Database  database.System
	KV        kv.System
	Storage   storage.System
	Records   records.Store
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   reg,
	}

	var err error
	switch cfg.Records.Engine {
	case records.EnginePostgres, records.EngineSQLite:
		infra.Database, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	case records.EngineBadger:
		infra.KV, err = kv.New(&cfg.KV, logger)
		if err != nil {
			return nil, fmt.Errorf("kv init failed: %w", err)
		}
	case records.EngineBlob:
		infra.Storage, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	}

	infra.Records, err = records.Open(
		&cfg.Records,
		records.Backends{
			Database: infra.Database,
			KV:       infra.KV,
			Storage:  infra.Storage,
		},
		lc,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("records init failed: %w", err)
	}

	return infra, nil
}

// Start registers the configured backend with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.KV != nil {
		if err := i.KV.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("kv start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
