package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincalc/internal/calc"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_AppendAndHydrate(t *testing.T) {
	l := openTemp(t)

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, e := range []calc.Expense{
		{ID: "1", Description: "Coffee", Amount: 4.5, Category: "Food", RecordedAt: at},
		{ID: "2", Description: "Bus", Amount: 2, Category: "Transport", RecordedAt: at.Add(time.Minute)},
		{ID: "3", Description: "Lunch", Amount: 10, Category: "Food", RecordedAt: at.Add(2 * time.Minute)},
	} {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append(%s): %v", e.ID, err)
		}
	}

	tr := calc.NewTracker()
	n, err := l.Hydrate(tr)
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if n != 3 {
		t.Errorf("hydrated %d expenses, want 3", n)
	}

	totals := tr.Totals()
	if got, _ := totals.Get("Food"); got != 14.5 {
		t.Errorf("Food = %v, want 14.5", got)
	}
	if totals[0].Category != "Food" || totals[1].Category != "Transport" {
		t.Errorf("category order = %v, want Food then Transport", totals)
	}

	exps := tr.Expenses()
	if !exps[0].RecordedAt.Equal(at) {
		t.Errorf("RecordedAt = %v, want %v", exps[0].RecordedAt, at)
	}
}

func TestLedger_RejectsDuplicateID(t *testing.T) {
	l := openTemp(t)
	e := calc.Expense{ID: "dup", Description: "x", Amount: 1, Category: "Other", RecordedAt: time.Now()}
	if err := l.Append(e); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(e); err == nil {
		t.Fatal("expected error appending duplicate id")
	}
}

func TestLedger_Reset(t *testing.T) {
	l := openTemp(t)
	if err := l.Append(calc.Expense{ID: "a", Description: "x", Amount: 1, Category: "Other", RecordedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := l.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	n, err := l.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count after reset = %d, want 0", n)
	}
}
