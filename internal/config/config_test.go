package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"littletodo/internal/storage"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "littletodo", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate: %v", err)
	}
	if again != cfg {
		t.Errorf("reloaded cfg = %+v, want %+v", again, cfg)
	}
}

func TestLoadOrCreateFillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `backend = "sqlite"
db_path = "/tmp/x.db"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend: got %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.DataPath != storage.DefaultJSONPath {
		t.Errorf("DataPath: got %q, want %q", cfg.DataPath, storage.DefaultJSONPath)
	}
	if cfg.Interface != InterfaceMenu {
		t.Errorf("Interface: got %q, want %q", cfg.Interface, InterfaceMenu)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log: got %+v", cfg.Log)
	}
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad backend", `backend = "mysql"`, "unknown backend"},
		{"bad interface", `interface = "gui"`, "unknown interface"},
		{"bad toml", `backend = `, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("seed: %v", err)
			}
			_, err := LoadOrCreate(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadOrCreate error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(ConfigEnv, "/etc/littletodo.toml")
	if got := ResolveConfigPath(); got != "/etc/littletodo.toml" {
		t.Errorf("ResolveConfigPath() = %q", got)
	}
}

func TestOpenBackend(t *testing.T) {
	cfg := defaultConfig()
	if b, ok := cfg.OpenBackend().(storage.JSONFile); !ok || b.Path != storage.DefaultJSONPath {
		t.Errorf("json backend = %#v", cfg.OpenBackend())
	}
	cfg.Backend = BackendSQLite
	cfg.DBPath = "x.db"
	if b, ok := cfg.OpenBackend().(storage.SQLite); !ok || b.Path != "x.db" {
		t.Errorf("sqlite backend = %#v", cfg.OpenBackend())
	}
}
