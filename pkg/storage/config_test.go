package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/helix/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "dna-records" {
		t.Errorf("container_name: got %s, want dna-records", cfg.ContainerName)
	}
	if cfg.MaxListSize != 1000 {
		t.Errorf("max_list_size: got %d, want 1000", cfg.MaxListSize)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "records")
	t.Setenv("TEST_ACCOUNT_URL", "https://helix.blob.core.windows.net/")
	t.Setenv("TEST_MAX_LIST", "99999")

	env := &storage.Env{
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
		MaxListSize:   "TEST_MAX_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "records" {
		t.Errorf("container_name: got %s, want records", cfg.ContainerName)
	}
	if cfg.AccountURL != "https://helix.blob.core.windows.net/" {
		t.Errorf("account_url: got %s", cfg.AccountURL)
	}
	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size: got %d, want %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "missing credentials",
			cfg:     storage.Config{ContainerName: "records"},
			wantErr: "connection_string or account_url required",
		},
		{
			name: "connection string only",
			cfg:  storage.Config{ConnectionString: "conn"},
		},
		{
			name: "account url only",
			cfg:  storage.Config{AccountURL: "https://helix.blob.core.windows.net/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "base", ConnectionString: "base-conn", MaxListSize: 10}
	base.Merge(&storage.Config{ContainerName: "overlay", AccountURL: "https://overlay/"})

	if base.ContainerName != "overlay" {
		t.Errorf("container_name: got %s, want overlay", base.ContainerName)
	}
	if base.ConnectionString != "base-conn" {
		t.Errorf("connection_string: got %s, want base-conn", base.ConnectionString)
	}
	if base.AccountURL != "https://overlay/" {
		t.Errorf("account_url: got %s, want https://overlay/", base.AccountURL)
	}
	if base.MaxListSize != 10 {
		t.Errorf("max_list_size: got %d, want 10", base.MaxListSize)
	}
}
