package infrastructure_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/helix/internal/config"
	"github.com/JaimeStill/helix/internal/infrastructure"
	"github.com/JaimeStill/helix/pkg/dna"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestNewBackends(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		database bool
		kv       bool
	}{
		{"memory", map[string]string{"HELIX_RECORDS_ENGINE": "memory"}, false, false},
		{"sqlite", map[string]string{"HELIX_RECORDS_ENGINE": "sqlite"}, true, false},
		{"badger", map[string]string{"HELIX_RECORDS_ENGINE": "badger", "HELIX_KV_IN_MEMORY": "true"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infra, err := infrastructure.New(loadConfig(t, tt.env))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if err := infra.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			t.Cleanup(func() {
				infra.Lifecycle.WaitForStartup()
				infra.Lifecycle.Shutdown(5 * time.Second)
			})

			if (infra.Database != nil) != tt.database {
				t.Errorf("database present = %v, want %v", infra.Database != nil, tt.database)
			}
			if (infra.KV != nil) != tt.kv {
				t.Errorf("kv present = %v, want %v", infra.KV != nil, tt.kv)
			}
			if infra.Storage != nil {
				t.Error("storage should not be created")
			}
			if infra.Records == nil {
				t.Error("records store should be created")
			}
			if infra.Metrics == nil {
				t.Error("metrics registry should be created")
			}
		})
	}
}

func TestStartSQLite(t *testing.T) {
	infra, err := infrastructure.New(loadConfig(t, map[string]string{
		"HELIX_RECORDS_ENGINE": "sqlite",
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if !infra.Lifecycle.Ready() {
		t.Fatal("lifecycle should be ready after startup")
	}

	fp := dna.NewGrid([]string{"ATGC", "CAGT", "TTAT", "AGAC"}).Fingerprint()
	inserted, err := infra.Records.InsertIfAbsent(t.Context(), fp, false)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Error("first insert should win")
	}

	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestMetricsRegistry(t *testing.T) {
	infra, err := infrastructure.New(loadConfig(t, map[string]string{
		"HELIX_RECORDS_ENGINE": "memory",
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	families, err := infra.Metrics.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "go_goroutines" {
			found = true
			break
		}
	}
	if !found {
		t.Error("go collector should be registered")
	}
}
