package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/present"
)

// Action names.
const (
	ActionRetirement     = "calculate-retirement"
	ActionBudget         = "calculate-budget"
	ActionAddExpense     = "add-expense"
	ActionToggleDarkMode = "toggle-dark-mode"
)

// Field names used by the built-in actions.
const (
	FieldCurrentAge          = "current_age"
	FieldRetirementAge       = "retirement_age"
	FieldCurrentSavings      = "current_savings"
	FieldMonthlyContribution = "monthly_contribution"
	FieldAnnualReturn        = "annual_return" // percent, e.g. "7"

	FieldIncome   = "income"
	FieldExpenses = "expenses"

	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"

	FieldEnabled = "enabled" // optional for toggle-dark-mode
)

// ParseProjectionInput reads the retirement form. Every field is parsed before
// any error is reported, so a half-filled form yields one alert.
func ParseProjectionInput(f Fields) (calc.ProjectionInput, error) {
	var (
		in       calc.ProjectionInput
		firstErr error
	)
	parse := func(dst *float64, field string, fn func(string, string) (float64, error)) {
		v, err := fn(field, f[field])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = v
	}

	parse(&in.CurrentAge, FieldCurrentAge, calc.ParseAmount)
	parse(&in.RetirementAge, FieldRetirementAge, calc.ParseAmount)
	parse(&in.CurrentSavings, FieldCurrentSavings, calc.ParseAmount)
	parse(&in.MonthlyContribution, FieldMonthlyContribution, calc.ParseAmount)
	parse(&in.AnnualReturnRate, FieldAnnualReturn, calc.ParsePercent)

	return in, firstErr
}

func handleRetirement(_ context.Context, _ *State, f Fields) (present.Request, error) {
	in, err := ParseProjectionInput(f)
	if err != nil {
		return present.Request{}, err
	}
	res, err := calc.ComputeProjection(in)
	if err != nil {
		return present.Request{}, err
	}
	return present.Projection(res), nil
}

func handleBudget(_ context.Context, _ *State, f Fields) (present.Request, error) {
	income, err := calc.ParseAmount(FieldIncome, f[FieldIncome])
	if err != nil {
		return present.Request{}, err
	}
	expenses, err := calc.ParseAmount(FieldExpenses, f[FieldExpenses])
	if err != nil {
		return present.Request{}, err
	}
	res, err := calc.ComputeBalance(income, expenses)
	if err != nil {
		return present.Request{}, err
	}
	return present.Budget(res), nil
}

func (d *Dispatcher) handleAddExpense(_ context.Context, st *State, f Fields) (present.Request, error) {
	description := strings.TrimSpace(f[FieldDescription])
	if description == "" {
		return present.Request{}, &calc.ValidationError{Field: FieldDescription, Reason: calc.ReasonEmpty}
	}
	amount, err := calc.ParseAmount(FieldAmount, f[FieldAmount])
	if err != nil {
		return present.Request{}, err
	}
	category := strings.TrimSpace(f[FieldCategory])
	if category == "" {
		category = st.DefaultCategory
	}

	exp, totals, msg, err := st.Expenses.Record(description, amount, category)
	if err != nil {
		return present.Request{}, err
	}

	if d.journal != nil {
		if err := d.journal.Append(exp); err != nil {
			d.log.WithError(err).WithField("expense_id", exp.ID).Warn("expense not saved to ledger")
		}
	}

	return present.Expense(totals, msg), nil
}

func handleToggleDarkMode(_ context.Context, st *State, f Fields) (present.Request, error) {
	var (
		enabled bool
		err     error
	)
	if raw := strings.TrimSpace(f[FieldEnabled]); raw != "" {
		v, perr := strconv.ParseBool(raw)
		if perr != nil {
			return present.Request{}, &calc.ValidationError{Field: FieldEnabled, Reason: "expected true or false"}
		}
		enabled = v
		err = st.Prefs.SetDarkMode(v)
	} else {
		enabled, err = st.Prefs.Toggle()
	}

	msg := "Dark mode disabled."
	if enabled {
		msg = "Dark mode enabled."
	}
	req := present.Request{Title: "Appearance", Message: msg}
	if err != nil {
		// The preference applies for this session even if it could not be saved.
		req.Message += " (not saved: " + err.Error() + ")"
	}
	return req, nil
}
