package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formField describes one input of a calculator form.
type formField struct {
	key         string
	title       string
	placeholder string
	options     []string // non-nil renders a select instead of a text input
}

// calcForm is a calculator tab: a huh form whose submit dispatches action.
// Values live behind pointers so they survive App copies and form rebuilds.
type calcForm struct {
	action string
	title  string
	button string
	fields []formField
	values map[string]*string

	form *huh.Form
	last *present.Request // last successful result, shown under the form
}

func newCalcForm(action, title, button string, fields []formField) *calcForm {
	f := &calcForm{
		action: action,
		title:  title,
		button: button,
		fields: fields,
		values: make(map[string]*string, len(fields)),
	}
	for _, fld := range fields {
		v := ""
		if len(fld.options) > 0 {
			v = fld.options[0]
		}
		f.values[fld.key] = &v
	}
	return f
}

func newRetirementForm() *calcForm {
	return newCalcForm(app.ActionRetirement, "Retirement Savings", "Calculate", []formField{
		{key: app.FieldCurrentAge, title: "Current age", placeholder: "30"},
		{key: app.FieldRetirementAge, title: "Retirement age", placeholder: "65"},
		{key: app.FieldCurrentSavings, title: "Current savings ($)", placeholder: "10000"},
		{key: app.FieldMonthlyContribution, title: "Monthly contribution ($)", placeholder: "500"},
		{key: app.FieldAnnualReturn, title: "Expected annual return (%)", placeholder: "7"},
	})
}

func newBudgetForm() *calcForm {
	return newCalcForm(app.ActionBudget, "Budget Planner", "Calculate", []formField{
		{key: app.FieldIncome, title: "Monthly income ($)", placeholder: "5000"},
		{key: app.FieldExpenses, title: "Monthly expenses ($)", placeholder: "3000"},
	})
}

func newExpenseForm(categories []string, defaultCategory string) *calcForm {
	opts := append([]string(nil), categories...)
	for i, c := range opts {
		if c == defaultCategory && i > 0 {
			opts[0], opts[i] = opts[i], opts[0]
			break
		}
	}
	return newCalcForm(app.ActionAddExpense, "Expense Tracker", "Add Expense", []formField{
		{key: app.FieldDescription, title: "Description", placeholder: "Coffee"},
		{key: app.FieldAmount, title: "Amount ($)", placeholder: "4.50"},
		{key: app.FieldCategory, title: "Category", options: opts},
	})
}

// build creates a fresh huh form bound to the current values.
func (f *calcForm) build(width int) *huh.Form {
	fields := make([]huh.Field, 0, len(f.fields))
	for _, fld := range f.fields {
		if len(fld.options) > 0 {
			fields = append(fields, huh.NewSelect[string]().
				Key(fld.key).
				Title(fld.title).
				Options(huh.NewOptions(fld.options...)...).
				Value(f.values[fld.key]))
			continue
		}
		fields = append(fields, huh.NewInput().
			Key(fld.key).
			Title(fld.title).
			Placeholder(fld.placeholder).
			Value(f.values[fld.key]))
	}

	f.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(formTheme()).
		WithShowHelp(true).
		WithWidth(width)
	return f.form
}

// collect returns the raw form values for dispatch.
func (f *calcForm) collect() app.Fields {
	out := make(app.Fields, len(f.values))
	for k, v := range f.values {
		out[k] = *v
	}
	return out
}

// clearInputs empties free-text fields after a successful add, keeping
// selects. Used by the expense form so the next entry starts blank.
func (f *calcForm) clearInputs() {
	for _, fld := range f.fields {
		if len(fld.options) == 0 {
			*f.values[fld.key] = ""
		}
	}
}

// summary renders the form's current values read-only, for when the form
// is not being edited.
func (f *calcForm) summary(pulse bool) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	labelW := 0
	for _, fld := range f.fields {
		if w := lipgloss.Width(fld.title); w > labelW {
			labelW = w
		}
	}

	var b strings.Builder
	for _, fld := range f.fields {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s  ", labelW, fld.title)))
		if v := *f.values[fld.key]; v != "" {
			b.WriteString(valueStyle.Render(v))
		} else {
			b.WriteString(emptyStyle.Render(fld.placeholder))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderButton(f.button, pulse))
	b.WriteString(labelStyle.Render("  [enter] edit and submit"))
	return b.String()
}

// renderButton draws the submit button. The pulse alternates its emphasis
// while the form is idle.
func renderButton(label string, pulse bool) string {
	t := theme.Active
	style := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Padding(0, 1)
	if pulse {
		style = style.Background(t.AccentBright).Bold(true)
	}
	return style.Render(label)
}

// formTheme matches huh's palette to the active theme's brightness.
func formTheme() *huh.Theme {
	if theme.IsLight(theme.Active) {
		return huh.ThemeBase()
	}
	return huh.ThemeCharm()
}
