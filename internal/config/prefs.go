package config

// PrefStore persists the dark-mode preference in config.toml.
// The zero value is ready to use.
type PrefStore struct{}

// LoadDarkMode reads the saved preference. A missing or unreadable config
// reads as light mode.
func (PrefStore) LoadDarkMode() (bool, error) {
	cfg, err := Load()
	if err != nil {
		return false, err
	}
	return cfg.Appearance.DarkMode, nil
}

// SaveDarkMode writes the preference, preserving every other setting.
func (PrefStore) SaveDarkMode(enabled bool) error {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Appearance.DarkMode = enabled
	return Save(cfg)
}
