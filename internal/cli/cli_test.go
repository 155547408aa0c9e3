package cli

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/fincalc/internal/present"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{4.5, "$4.50"},
		{1210, "$1,210.00"},
		{1234567.891, "$1,234,567.89"},
		{-500, "-$500.00"},
		{1e20, "$100,000,000,000,000,000,000.00"},
		{math.Inf(1), "$+Inf"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "$950"},
		{12500, "$12.5K"},
		{2300000, "$2.3M"},
	}
	for _, tt := range tests {
		if got := FormatCompactMoney(tt.in); got != tt.want {
			t.Errorf("FormatCompactMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("got %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("got %q", got)
	}
}

func TestChartTable_Proportional(t *testing.T) {
	tbl := ChartTable(&present.Chart{
		Kind:   present.ChartDoughnut,
		Labels: []string{"Income", "Expenses"},
		Series: []present.Series{{Values: []float64{3000, 1000}}},
	})
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][2] != "75.0%" || tbl.Rows[1][2] != "25.0%" {
		t.Errorf("shares = %s, %s", tbl.Rows[0][2], tbl.Rows[1][2])
	}
}

func TestChartTable_Line(t *testing.T) {
	tbl := ChartTable(&present.Chart{
		Kind:   present.ChartLine,
		Labels: []string{"Year 1", "Year 2"},
		Series: []present.Series{{Label: "Savings Growth ($)", Values: []float64{1100, 1210}}},
	})
	if tbl.Title != "Savings Growth ($)" {
		t.Errorf("title = %q", tbl.Title)
	}
	if tbl.Rows[1][2] != "+$110.00" {
		t.Errorf("change = %q", tbl.Rows[1][2])
	}
}

func TestRenderRequest_Alert(t *testing.T) {
	out := RenderRequest(present.Request{Title: "Budget Planner", Message: "Please enter valid numbers for income and expenses.", Alert: true})
	if !strings.Contains(out, "Please enter valid numbers") {
		t.Errorf("missing message: %s", out)
	}
}

func TestRenderRequest_EmptySeriesHasNoTable(t *testing.T) {
	out := RenderRequest(present.Request{
		Title:   "Retirement Savings",
		Message: "Your total savings at retirement will be $1000.00.",
		Chart:   &present.Chart{Kind: present.ChartLine, Series: []present.Series{{Label: "Savings Growth ($)"}}},
	})
	if !strings.Contains(out, "$1000.00") {
		t.Errorf("missing message: %s", out)
	}
	if strings.Contains(out, "Savings Growth") || strings.Contains(out, "╭") {
		t.Errorf("empty series rendered a table: %s", out)
	}
}

func TestEncode(t *testing.T) {
	req := present.Request{Title: "Budget Planner", Message: "ok"}

	var js bytes.Buffer
	if err := Encode(&js, FormatJSON, req); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"title": "Budget Planner"`) {
		t.Errorf("json = %s", js.String())
	}

	var ym bytes.Buffer
	if err := Encode(&ym, FormatYAML, req); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym.String(), "title: Budget Planner") {
		t.Errorf("yaml = %s", ym.String())
	}

	if err := Encode(&ym, "xml", req); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderTable_AlignsAndMarksTotals(t *testing.T) {
	out := RenderTable(Table{
		Headers:   []string{"Category", "Amount"},
		Rows:      [][]string{{"Food", "$14.50"}, {"Housing", "$1,200.00"}, {"Total", "$1,214.50"}},
		TotalRows: 1,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// top, header, rule, 2 rows, total rule, total, bottom
	if len(lines) != 8 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "Food    ") || !strings.Contains(lines[3], "    $14.50") {
		t.Errorf("row not aligned: %q", lines[3])
	}
	if !strings.Contains(lines[5], "├") {
		t.Errorf("expected rule above totals, got %q", lines[5])
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}
