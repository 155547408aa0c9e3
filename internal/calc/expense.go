package calc

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Expense is a single recorded expense.
type Expense struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Amount      float64   `json:"amount" yaml:"amount"`
	Category    string    `json:"category" yaml:"category"`
	RecordedAt  time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// CategoryTotal is the accumulated amount for one category.
type CategoryTotal struct {
	Category string  `json:"category" yaml:"category"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// Totals is an ordered snapshot of the category mapping.
// Categories appear in the order they were first recorded.
type Totals []CategoryTotal

// Get returns the total for category and whether it exists.
func (t Totals) Get(category string) (float64, bool) {
	for _, ct := range t {
		if ct.Category == category {
			return ct.Amount, true
		}
	}
	return 0, false
}

// Map returns the totals as a plain map.
func (t Totals) Map() map[string]float64 {
	m := make(map[string]float64, len(t))
	for _, ct := range t {
		m[ct.Category] = ct.Amount
	}
	return m
}

// Sum returns the total across all categories.
func (t Totals) Sum() float64 {
	var sum float64
	for _, ct := range t {
		sum += ct.Amount
	}
	return sum
}

// Tracker accumulates expenses by category. The zero value is not usable;
// create one with NewTracker.
type Tracker struct {
	mu       sync.Mutex
	order    []string
	totals   map[string]float64
	expenses []Expense
	now      func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		totals: make(map[string]float64),
		now:    time.Now,
	}
}

// RecordExpense validates and adds an expense to its category total.
// It returns the updated totals and a confirmation message. Rejected input
// leaves the tracker unchanged.
func (t *Tracker) RecordExpense(description string, amount float64, category string) (Totals, string, error) {
	_, totals, msg, err := t.Record(description, amount, category)
	return totals, msg, err
}

// Record is RecordExpense that also returns the stored Expense.
func (t *Tracker) Record(description string, amount float64, category string) (Expense, Totals, string, error) {
	exp, err := t.newExpense(description, amount, category)
	if err != nil {
		return Expense{}, nil, "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Both the category total and the grand total must stay representable.
	if !isFinite(t.totals[exp.Category]+exp.Amount) || !isFinite(t.sum()+exp.Amount) {
		return Expense{}, nil, "", invalid("amount", ReasonOutOfRange)
	}
	t.apply(exp)
	return exp, t.snapshot(), ConfirmationMessage(exp), nil
}

// Replay adds a previously recorded expense without re-validating its
// description, keeping the original ID and timestamp. Used to hydrate the
// tracker from a ledger.
func (t *Tracker) Replay(exp Expense) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apply(exp)
}

// Last returns the most recently recorded expense.
func (t *Tracker) Last() (Expense, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.expenses) == 0 {
		return Expense{}, false
	}
	return t.expenses[len(t.expenses)-1], true
}

// Totals returns a snapshot of the category mapping.
func (t *Tracker) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Expenses returns a copy of all recorded expenses in insertion order.
func (t *Tracker) Expenses() []Expense {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Expense, len(t.expenses))
	copy(out, t.expenses)
	return out
}

// Reset clears all recorded expenses.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = nil
	t.totals = make(map[string]float64)
	t.expenses = nil
}

func (t *Tracker) newExpense(description string, amount float64, category string) (Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Expense{}, invalid("description", ReasonEmpty)
	}
	if !isFinite(amount) {
		return Expense{}, invalid("amount", ReasonNonNumeric)
	}
	if amount <= 0 {
		return Expense{}, invalid("amount", ReasonNotPositive)
	}

	return Expense{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		RecordedAt:  t.now(),
	}, nil
}

// apply must be called with t.mu held.
func (t *Tracker) apply(exp Expense) {
	if _, ok := t.totals[exp.Category]; !ok {
		t.order = append(t.order, exp.Category)
	}
	t.totals[exp.Category] += exp.Amount
	t.expenses = append(t.expenses, exp)
}

// sum must be called with t.mu held.
func (t *Tracker) sum() float64 {
	var total float64
	for _, v := range t.totals {
		total += v
	}
	return total
}

// snapshot must be called with t.mu held.
func (t *Tracker) snapshot() Totals {
	out := make(Totals, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, CategoryTotal{Category: c, Amount: t.totals[c]})
	}
	return out
}

// ConfirmationMessage formats the message shown after an expense is recorded.
func ConfirmationMessage(exp Expense) string {
	return fmt.Sprintf("Expense \"%s\" added for $%.2f under \"%s\".", exp.Description, exp.Amount, exp.Category)
}
