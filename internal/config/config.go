package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"littletodo/internal/storage"
)

const (
	DefaultConfigFileName = "config.toml"
	ConfigEnv             = "LITTLETODO_CONFIG"

	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	InterfaceMenu = "menu"
	InterfaceTUI  = "tui"
)

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type Config struct {
	DataPath  string `toml:"data_path"`
	Backend   string `toml:"backend"`
	DBPath    string `toml:"db_path"`
	Interface string `toml:"interface"`
	Log       Log    `toml:"log"`
}

// ResolveConfigPath picks the config file: $LITTLETODO_CONFIG first, then
// the user config dir, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "littletodo", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	fillDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Interface {
	case InterfaceMenu, InterfaceTUI:
	default:
		return fmt.Errorf("unknown interface %q", c.Interface)
	}
	return nil
}

// OpenBackend returns the storage backend selected by the config.
func (c Config) OpenBackend() storage.Backend {
	if c.Backend == BackendSQLite {
		return storage.SQLite{Path: c.DBPath}
	}
	return storage.JSONFile{Path: c.DataPath}
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fillDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.DataPath == "" {
		cfg.DataPath = def.DataPath
	}
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.Interface == "" {
		cfg.Interface = def.Interface
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func defaultConfig() Config {
	return Config{
		DataPath:  storage.DefaultJSONPath,
		Backend:   BackendJSON,
		DBPath:    storage.DefaultDBPath,
		Interface: InterfaceMenu,
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}
