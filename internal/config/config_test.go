package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	for _, k := range []string{"FINCALC_LOG_LEVEL", "FINCALC_LEDGER_PATH", "FINCALC_ADDR", "FINCALC_DARK_MODE"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if Exists() {
		t.Fatal("Exists reported a config file that was never written")
	}
	if cfg.Appearance.DarkMode {
		t.Error("dark mode should default to off")
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
	if !cfg.Ledger.Enabled {
		t.Error("ledger should default to enabled")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Appearance.DarkMode = true
	cfg.Appearance.Theme = "tokyo-night"
	cfg.General.Categories = []string{"Rent", "Fun"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "fincalc", "config.toml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Appearance.DarkMode || got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Appearance = %+v", got.Appearance)
	}
	if cats := Categories(got); len(cats) != 2 || cats[0] != "Rent" {
		t.Errorf("Categories = %v", cats)
	}
}

func TestLoad_ParseError(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(filepath.Join(dir, "fincalc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fincalc", "config.toml"), []byte("[appearance\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FINCALC_LEDGER_PATH", "/tmp/custom.db")
	t.Setenv("FINCALC_DARK_MODE", "true")
	t.Setenv("FINCALC_ADDR", "0.0.0.0:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if LedgerPath(cfg) != "/tmp/custom.db" {
		t.Errorf("LedgerPath = %q", LedgerPath(cfg))
	}
	if !cfg.Appearance.DarkMode {
		t.Error("FINCALC_DARK_MODE=true not applied")
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestPrefStore_PreservesOtherSettings(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "catppuccin-mocha"
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	var ps PrefStore
	if err := ps.SaveDarkMode(true); err != nil {
		t.Fatalf("SaveDarkMode: %v", err)
	}
	dark, err := ps.LoadDarkMode()
	if err != nil {
		t.Fatal(err)
	}
	if !dark {
		t.Error("LoadDarkMode = false after saving true")
	}

	got, _ := Load()
	if got.Appearance.Theme != "catppuccin-mocha" {
		t.Errorf("Theme = %q, want catppuccin-mocha preserved", got.Appearance.Theme)
	}
}
