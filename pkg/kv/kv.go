// Package kv wraps an embedded BadgerDB key-value store with value-log
// garbage collection and lifecycle coordination.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/JaimeStill/helix/pkg/lifecycle"
)

// System owns a BadgerDB handle.
type System interface {
	// DB returns the open BadgerDB handle.
	DB() *badger.DB
	// Start registers the GC runner and the close hook with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type store struct {
	db         *badger.DB
	logger     *slog.Logger
	gcInterval time.Duration
	gcRatio    float64
	inMemory   bool
}

// New opens the database described by cfg. Badger takes a directory lock,
// so the handle is opened eagerly and released by the shutdown hook.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "kv")

	db, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &store{
		db:         db,
		logger:     logger,
		gcInterval: cfg.GCIntervalDuration(),
		gcRatio:    cfg.GCDiscardRatio,
		inMemory:   cfg.InMemory,
	}, nil
}

// Open opens a BadgerDB handle without lifecycle wiring.
func Open(cfg *Config, logger *slog.Logger) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.
		WithSyncWrites(cfg.Sync() && !cfg.InMemory).
		WithNumVersionsToKeep(1)

	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

func (s *store) DB() *badger.DB {
	return s.db
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting kv store", "in_memory", s.inMemory)

	// Value-log GC runs on the shutdown hook's goroutine so the handle is
	// never closed while a GC pass is in flight.
	lc.OnShutdown(func() {
		if s.gcInterval > 0 && !s.inMemory {
			s.gcLoop(lc.Context())
		} else {
			<-lc.Context().Done()
		}

		s.logger.Info("closing kv store")

		if err := s.db.Close(); err != nil {
			s.logger.Error("kv close failed", "error", err)
			return
		}

		s.logger.Info("kv store closed")
	})

	return nil
}

func (s *store) gcLoop(ctx context.Context) {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runGC()
		}
	}
}

func (s *store) runGC() {
	err := s.db.RunValueLogGC(s.gcRatio)
	switch {
	case err == nil:
		s.logger.Debug("value log gc completed")
	case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
	default:
		s.logger.Warn("value log gc failed", "error", err)
	}
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
