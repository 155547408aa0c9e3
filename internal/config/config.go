// Package config loads and saves the fincalc TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all fincalc configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultCategory string   `toml:"default_category"`
	Categories      []string `toml:"categories,omitempty"`
}

// AppearanceConfig holds theme settings. DarkMode is the persisted dark-mode
// preference; Theme names the dark theme and LightTheme the light one.
type AppearanceConfig struct {
	Theme      string `toml:"theme"`
	LightTheme string `toml:"light_theme"`
	DarkMode   bool   `toml:"dark_mode"`
}

// LedgerConfig controls the sqlite expense ledger.
type LedgerConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// ServerConfig holds `fincalc serve` settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// DefaultCategories are the expense categories offered in forms.
var DefaultCategories = []string{"Food", "Housing", "Transport", "Entertainment", "Other"}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultCategory: "Food",
		},
		Appearance: AppearanceConfig{
			Theme:      "flexoki-dark",
			LightTheme: "flexoki-light",
		},
		Ledger: LedgerConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fincalc")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory used for the ledger and logs.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fincalc")
}

// LedgerPath returns the configured ledger path or the default under DataDir.
func LedgerPath(cfg Config) string {
	if cfg.Ledger.Path != "" {
		return cfg.Ledger.Path
	}
	return filepath.Join(DataDir(), "ledger.db")
}

// Categories returns the configured expense categories, falling back to defaults.
func Categories(cfg Config) []string {
	if len(cfg.General.Categories) > 0 {
		return cfg.General.Categories
	}
	return DefaultCategories
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top of whatever was read.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FINCALC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FINCALC_LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("FINCALC_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FINCALC_DARK_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Appearance.DarkMode = b
		}
	}
}
