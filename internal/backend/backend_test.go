package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"terapis/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{DataBackend: "file", DataFilePath: "/tmp/x.json", StoreKey: "treatmentData"}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != FileBackend || got.DataFilePath != "/tmp/x.json" || got.StoreKey != "treatmentData" {
		t.Fatalf("config = %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"sqlite without path", Config{Type: SQLiteBackend, StoreKey: "k"}, "database path is required"},
		{"sqlite without key", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, "store key is required"},
		{"file without path", Config{Type: FileBackend}, "data file path is required"},
		{"unknown", Config{Type: "sheets"}, "must be one of [sqlite file memory]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configs := []Config{
		{Type: MemoryBackend},
		{Type: FileBackend, DataFilePath: filepath.Join(dir, "data", "ledger.json")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "data", "terapis.db"), StoreKey: "treatmentData"},
	}

	ctx := context.Background()
	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}

			if _, ok, err := res.Backend.Load(ctx); err != nil || ok {
				t.Fatalf("fresh load ok=%v err=%v", ok, err)
			}
			if err := res.Backend.Save(ctx, []byte(`[]`)); err != nil {
				t.Fatal(err)
			}
			data, ok, err := res.Backend.Load(ctx)
			if err != nil || !ok || string(data) != "[]" {
				t.Fatalf("load = %q ok=%v err=%v", data, ok, err)
			}
			if err := res.Ready(ctx); err != nil {
				t.Fatalf("ready: %v", err)
			}
		})
	}
}
