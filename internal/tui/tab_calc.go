package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/components"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const resultChartRows = 8

// renderCalcTab draws a calculator tab: the form (live when editing, a
// read-only summary otherwise) and the last result beneath it.
func (a App) renderCalcTab(cw int) string {
	f := a.activeForm()
	if f == nil {
		return ""
	}

	var b strings.Builder
	if a.editing && f.form != nil {
		b.WriteString(components.FocusCard(f.title, f.form.View(), cw))
	} else {
		b.WriteString(components.ContentCard(f.title, f.summary(a.banner.pulse()), cw))
	}

	if f.last != nil {
		b.WriteString("\n")
		b.WriteString(a.renderResult(f, cw))
	}
	return b.String()
}

func (a App) renderResult(f *calcForm, cw int) string {
	req := f.last
	innerW := components.CardInnerWidth(cw)

	switch a.activeTab {
	case tabBudget:
		return a.renderBudgetResult(req, cw)
	case tabExpenses:
		return renderExpenseResult(req, cw)
	}

	var b strings.Builder
	if req.Message != "" {
		b.WriteString(resultMessageStyle().Render(req.Message))
		b.WriteString("\n\n")
	}
	b.WriteString(components.RenderChart(req.Chart, innerW, resultChartRows))
	return components.ContentCard("Last result", b.String(), cw)
}

func (a App) renderBudgetResult(req *present.Request, cw int) string {
	if req.Chart == nil || len(req.Chart.Series) == 0 || len(req.Chart.Series[0].Values) < 2 {
		return components.ContentCard("Last result", req.Message, cw)
	}
	income, expenses := req.Chart.Series[0].Values[0], req.Chart.Series[0].Values[1]

	balance := components.Metric{Label: "Balance", Value: cli.FormatMoney(income - expenses), Note: "surplus", Tone: components.TonePositive}
	if income-expenses < 0 {
		balance.Note, balance.Tone = "deficit", components.ToneNegative
	}
	metrics := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(income)},
		{Label: "Expenses", Value: cli.FormatMoney(expenses), Note: cli.FormatPercent(safeRatio(expenses, income)) + " of income"},
		balance,
	}

	innerW := components.CardInnerWidth(cw)
	barW := innerW - 20
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	b.WriteString(resultMessageStyle().Render(req.Message))
	b.WriteString("\n\n")
	b.WriteString(components.RatioBar("Spent", expenses, income, 6, barW))
	b.WriteString("\n\n")
	b.WriteString(components.RenderChart(req.Chart, innerW, resultChartRows))

	return components.MetricCardRow(metrics, cw) + "\n" + components.ContentCard("Last result", b.String(), cw)
}

func safeRatio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

func renderExpenseResult(req *present.Request, cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	var b strings.Builder
	if req.Message != "" {
		b.WriteString(resultMessageStyle().Render(req.Message))
		b.WriteString("\n\n")
	}
	b.WriteString(components.RenderChart(req.Chart, innerW, resultChartRows))

	if req.Chart != nil && len(req.Chart.Series) > 0 {
		total := 0.0
		for _, v := range req.Chart.Series[0].Values {
			total += v
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render(fmt.Sprintf("Total %s across %d categories", cli.FormatMoney(total), len(req.Chart.Labels))))
	}
	return components.ContentCard("Totals by category", b.String(), cw)
}

func resultMessageStyle() lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
}
