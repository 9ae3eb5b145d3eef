package records_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/helix/internal/records"
	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/lifecycle"
)

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_RECORDS_ENGINE", "badger")
	t.Setenv("TEST_RECORDS_AUTO_MIGRATE", "false")

	cfg := &records.Config{}
	err := cfg.Finalize(&records.Env{
		Engine:      "TEST_RECORDS_ENGINE",
		AutoMigrate: "TEST_RECORDS_AUTO_MIGRATE",
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Engine != records.EngineBadger {
		t.Errorf("engine = %s, want badger", cfg.Engine)
	}
	if cfg.Migrate() {
		t.Error("auto_migrate should be false")
	}
	if cfg.Relational() {
		t.Error("badger is not relational")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &records.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Engine != records.EngineSQLite || !cfg.Migrate() || !cfg.Relational() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	bad := &records.Config{Engine: "mongo"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("unknown engine should fail validation")
	}
}

func TestOpenRequiresBackend(t *testing.T) {
	lc := lifecycle.New()

	for _, engine := range []string{records.EnginePostgres, records.EngineSQLite, records.EngineBadger, records.EngineBlob} {
		t.Run(engine, func(t *testing.T) {
			_, err := records.Open(&records.Config{Engine: engine}, records.Backends{}, lc, discard())
			if err == nil {
				t.Error("Open without a backend should fail")
			}
		})
	}
}

func TestOpenMemory(t *testing.T) {
	store, err := records.Open(&records.Config{Engine: records.EngineMemory}, records.Backends{}, lifecycle.New(), discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store == nil {
		t.Fatal("Open returned nil store")
	}
}

func TestOpenSQLiteMigratesOnStartup(t *testing.T) {
	dbCfg := &database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "helix.db")}
	if err := dbCfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	db, err := database.New(dbCfg, discard())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}

	lc := lifecycle.New()
	if err := db.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}

	store, err := records.Open(
		&records.Config{Engine: records.EngineSQLite},
		records.Backends{Database: db},
		lc,
		discard(),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	t.Cleanup(func() { lc.Shutdown(5 * time.Second) })

	fp := fingerprint("AAAA", "CCCC", "TGTA", "GCTG")
	inserted, err := store.InsertIfAbsent(t.Context(), fp, true)
	if err != nil {
		t.Fatalf("InsertIfAbsent after migration: %v", err)
	}
	if !inserted {
		t.Error("insert into fresh schema should succeed")
	}
}

func TestOpenDriverMismatch(t *testing.T) {
	dbCfg := &database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "helix.db")}
	if err := dbCfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	db, err := database.New(dbCfg, discard())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Connection().Close()

	_, err = records.Open(&records.Config{Engine: records.EnginePostgres}, records.Backends{Database: db}, lifecycle.New(), discard())
	if err == nil {
		t.Error("postgres engine over sqlite database should fail")
	}
}
