// Package app owns the application state and the named command handlers
// that turn validated input into presentation requests.
package app

import (
	"fmt"
	"sync"

	"github.com/theirongolddev/fincalc/internal/calc"
)

// PrefStore loads and saves the dark-mode preference.
type PrefStore interface {
	LoadDarkMode() (bool, error)
	SaveDarkMode(enabled bool) error
}

// Preferences is the in-memory dark-mode flag, written through to its store
// on every change.
type Preferences struct {
	mu    sync.Mutex
	dark  bool
	store PrefStore
}

// LoadPreferences reads the saved preference once. A nil store keeps the
// preference in memory only. On a load error the preference starts as light
// mode and the error is returned alongside the usable value.
func LoadPreferences(store PrefStore) (*Preferences, error) {
	p := &Preferences{store: store}
	if store == nil {
		return p, nil
	}
	dark, err := store.LoadDarkMode()
	if err != nil {
		return p, fmt.Errorf("loading preferences: %w", err)
	}
	p.dark = dark
	return p, nil
}

// DarkMode reports whether dark mode is enabled.
func (p *Preferences) DarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dark
}

// Toggle flips dark mode and persists the new value.
func (p *Preferences) Toggle() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dark = !p.dark
	return p.dark, p.save()
}

// SetDarkMode sets dark mode and persists it.
func (p *Preferences) SetDarkMode(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dark = enabled
	return p.save()
}

// save must be called with p.mu held.
func (p *Preferences) save() error {
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveDarkMode(p.dark); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// State is everything a handler may read or update. It is created once by
// the top-level command and passed to the dispatcher.
type State struct {
	Expenses        *calc.Tracker
	Prefs           *Preferences
	DefaultCategory string
}

// NewState returns state with an empty tracker and in-memory preferences.
func NewState() *State {
	prefs, _ := LoadPreferences(nil)
	return &State{
		Expenses:        calc.NewTracker(),
		Prefs:           prefs,
		DefaultCategory: "Other",
	}
}
