// Package present builds the presentation requests handed from the
// calculators to whatever renders them (TUI modal, CLI table, HTTP stream).
package present

import (
	"fmt"
	"math"

	"github.com/theirongolddev/fincalc/internal/calc"

	"github.com/shopspring/decimal"
)

// ChartKind names the chart type to draw.
type ChartKind string

// Supported chart kinds.
const (
	ChartLine     ChartKind = "line"
	ChartDoughnut ChartKind = "doughnut"
	ChartPie      ChartKind = "pie"
)

// Series is one data series. Line charts carry a single color; doughnut
// and pie charts carry one color per value.
type Series struct {
	Label  string    `json:"label,omitempty" yaml:"label,omitempty"`
	Values []float64 `json:"values" yaml:"values"`
	Colors []string  `json:"colors" yaml:"colors"`
}

// Chart describes a chart without drawing it.
type Chart struct {
	Kind   ChartKind `json:"kind" yaml:"kind"`
	Labels []string  `json:"labels" yaml:"labels"`
	Series []Series  `json:"series" yaml:"series"`
}

// Request is a single thing to show the user.
type Request struct {
	Title   string `json:"title" yaml:"title"`
	Message string `json:"message" yaml:"message"`
	Chart   *Chart `json:"chart,omitempty" yaml:"chart,omitempty"`
	// Alert marks a blocking validation message.
	Alert bool `json:"alert,omitempty" yaml:"alert,omitempty"`
}

// Sink consumes presentation requests.
type Sink interface {
	Present(Request)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Request)

// Present implements Sink.
func (f SinkFunc) Present(r Request) { f(r) }

// Chart colors.
const (
	ColorSavings  = "#007bff"
	ColorIncome   = "#4caf50"
	ColorExpenses = "#f44336"
)

// CategoryPalette colors pie slices; it is cycled for more categories.
var CategoryPalette = []string{"#4caf50", "#2196f3", "#f44336", "#ff9800", "#9c27b0"}

// FormatMoney renders v with exactly two decimals, rounding half away from zero.
// Non-finite values, which the calculators never produce, print as-is.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Projection builds the retirement savings request.
func Projection(res calc.ProjectionResult) Request {
	labels := make([]string, res.Years())
	for i := range labels {
		labels[i] = fmt.Sprintf("Year %d", i+1)
	}
	values := make([]float64, len(res.YearlyBalances))
	copy(values, res.YearlyBalances)

	return Request{
		Title:   "Retirement Savings",
		Message: fmt.Sprintf("Your total savings at retirement will be $%s.", FormatMoney(res.FinalBalance)),
		Chart: &Chart{
			Kind:   ChartLine,
			Labels: labels,
			Series: []Series{{
				Label:  "Savings Growth ($)",
				Values: values,
				Colors: []string{ColorSavings},
			}},
		},
	}
}

// Budget builds the budget planner request.
func Budget(res calc.BalanceResult) Request {
	var msg string
	if res.IsSurplus {
		msg = fmt.Sprintf("You have a surplus of $%s.", FormatMoney(res.Balance))
	} else {
		msg = fmt.Sprintf("You have a deficit of $%s.", FormatMoney(-res.Balance))
	}

	return Request{
		Title:   "Budget Planner",
		Message: msg,
		Chart: &Chart{
			Kind:   ChartDoughnut,
			Labels: []string{"Income", "Expenses"},
			Series: []Series{{
				Values: []float64{res.Income, res.Expenses},
				Colors: []string{ColorIncome, ColorExpenses},
			}},
		},
	}
}

// Expense builds the expense tracker request from the updated totals.
func Expense(totals calc.Totals, message string) Request {
	labels := make([]string, len(totals))
	values := make([]float64, len(totals))
	colors := make([]string, len(totals))
	for i, ct := range totals {
		labels[i] = ct.Category
		values[i] = ct.Amount
		colors[i] = CategoryPalette[i%len(CategoryPalette)]
	}

	return Request{
		Title:   "Expense Tracker",
		Message: message,
		Chart: &Chart{
			Kind:   ChartPie,
			Labels: labels,
			Series: []Series{{
				Values: values,
				Colors: colors,
			}},
		},
	}
}

// Validation builds the blocking alert shown when input is rejected.
func Validation(title string, err error) Request {
	return Request{
		Title:   title,
		Message: AlertMessage(err),
		Alert:   true,
	}
}

// AlertMessage maps a validation failure to the text shown to the user.
func AlertMessage(err error) string {
	ve, ok := calc.AsValidation(err)
	if !ok {
		return err.Error()
	}
	switch {
	case ve.Reason == calc.ReasonOutOfRange:
		return "The result is too large to calculate. Please enter smaller values."
	case ve.Reason == calc.ReasonInvalidAge:
		return "Retirement age must be greater than current age."
	case ve.Field == "income" || ve.Field == "expenses":
		return "Please enter valid numbers for income and expenses."
	case ve.Field == "description" || ve.Field == "amount":
		return "Please enter valid expense details."
	default:
		return "Please fill in all fields with valid numbers."
	}
}
