// Package store provides the SQLite-backed expense ledger that lets category
// totals survive across separate fincalc invocations.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fincalc/internal/calc"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Ledger stores recorded expenses in insertion order.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Append stores one expense.
func (l *Ledger) Append(e calc.Expense) error {
	_, err := l.db.Exec(`INSERT INTO expenses (id, description, amount, category, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, e.Category, e.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending expense: %w", err)
	}
	return nil
}

// LoadAll reads every stored expense, oldest first.
func (l *Ledger) LoadAll() ([]calc.Expense, error) {
	rows, err := l.db.Query(`SELECT id, description, amount, category, recorded_at
		FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []calc.Expense
	for rows.Next() {
		var e calc.Expense
		var recorded string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &recorded); err != nil {
			return nil, err
		}
		e.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Hydrate replays every stored expense into tr and returns how many were loaded.
func (l *Ledger) Hydrate(tr *calc.Tracker) (int, error) {
	expenses, err := l.LoadAll()
	if err != nil {
		return 0, err
	}
	for _, e := range expenses {
		tr.Replay(e)
	}
	return len(expenses), nil
}

// Reset deletes every stored expense.
func (l *Ledger) Reset() error {
	if _, err := l.db.Exec("DELETE FROM expenses"); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

// Count returns the number of stored expenses.
func (l *Ledger) Count() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&count)
	return count, err
}
