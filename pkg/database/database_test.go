package database_test

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/lifecycle"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPostgresIsLazy(t *testing.T) {
	cfg := database.Config{
		Driver:          database.DriverPostgres,
		Host:            "localhost",
		Port:            5432,
		Name:            "testdb",
		User:            "testuser",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "3s",
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	if got := sys.Connection().Stats().MaxOpenConnections; got != 42 {
		t.Errorf("max open conns: got %d, want 42", got)
	}
	if sys.Driver() != database.DriverPostgres {
		t.Errorf("driver: got %s, want postgres", sys.Driver())
	}
}

func TestSQLiteStartup(t *testing.T) {
	cfg := database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := sys.Connection().Stats().MaxOpenConnections; got != 1 {
		t.Errorf("sqlite max open conns: got %d, want 1", got)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if err := lc.Shutdown(cfg.ConnTimeoutDuration()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStartupUnreachable(t *testing.T) {
	cfg := database.Config{
		Driver:      database.DriverPostgres,
		Host:        "127.0.0.1",
		Port:        1,
		Name:        "records",
		User:        "helix",
		SSLMode:     "disable",
		ConnTimeout: "2s",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err = lc.WaitForStartup()
	if !errors.Is(err, database.ErrNotReady) {
		t.Fatalf("startup: got %v, want ErrNotReady", err)
	}
	if lc.Ready() {
		t.Error("coordinator should not be ready after a failed ping")
	}

	if err := lc.Shutdown(cfg.ConnTimeoutDuration()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
