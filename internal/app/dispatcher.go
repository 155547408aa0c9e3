package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/logging"
	"github.com/theirongolddev/fincalc/internal/present"

	"github.com/sirupsen/logrus"
)

// ErrUnknownAction is returned when no handler is registered for an action.
var ErrUnknownAction = errors.New("unknown action")

// Fields are the raw text inputs of a form, keyed by field name.
type Fields map[string]string

// Handler turns validated fields into a presentation request, updating state
// where the action calls for it. Handlers never read terminal input or draw.
type Handler func(ctx context.Context, st *State, f Fields) (present.Request, error)

// Journal receives every successfully recorded expense.
type Journal interface {
	Append(e calc.Expense) error
}

// Dispatcher routes named actions to their handlers.
type Dispatcher struct {
	state   *State
	log     *logrus.Logger
	journal Journal

	mu        sync.RWMutex
	handlers  map[string]Handler
	observers []present.Sink
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithJournal persists recorded expenses.
func WithJournal(j Journal) Option {
	return func(d *Dispatcher) { d.journal = j }
}

// NewDispatcher returns a dispatcher with the built-in actions registered.
func NewDispatcher(st *State, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		state:    st,
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logging.Discard()
	}

	d.Register(ActionRetirement, handleRetirement)
	d.Register(ActionBudget, handleBudget)
	d.Register(ActionAddExpense, d.handleAddExpense)
	d.Register(ActionToggleDarkMode, handleToggleDarkMode)
	return d
}

// State returns the dispatcher's state.
func (d *Dispatcher) State() *State {
	return d.state
}

// Register binds a handler to an action name, replacing any existing one.
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Actions lists the registered action names in sorted order.
func (d *Dispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for n := range d.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Observe adds a sink that receives every request produced by Dispatch,
// including validation alerts.
func (d *Dispatcher) Observe(s present.Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, s)
}

// Dispatch runs the named action. On a validation failure it returns the
// alert request together with the *calc.ValidationError; state is untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, f Fields) (present.Request, error) {
	d.mu.RLock()
	h, ok := d.handlers[name]
	observers := append([]present.Sink(nil), d.observers...)
	d.mu.RUnlock()

	if !ok {
		return present.Request{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	entry := d.log.WithField("action", name)
	req, err := h(ctx, d.state, f)
	if err != nil {
		if !calc.IsValidation(err) {
			entry.WithError(err).Error("action failed")
			return present.Request{}, err
		}
		entry.WithError(err).Debug("input rejected")
		req = present.Validation(titleFor(name), err)
	} else {
		entry.Debug("action completed")
	}

	for _, o := range observers {
		o.Present(req)
	}
	return req, err
}

func titleFor(action string) string {
	switch action {
	case ActionRetirement:
		return "Retirement Savings"
	case ActionBudget:
		return "Budget Planner"
	case ActionAddExpense:
		return "Expense Tracker"
	case ActionToggleDarkMode:
		return "Appearance"
	default:
		return "Error"
	}
}
