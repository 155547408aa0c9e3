package present

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/fincalc/internal/calc"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1050, "1050.00"},
		{14.5, "14.50"},
		{2.345, "2.35"},
		{1.005, "1.01"}, // rounds the shortest decimal form, not the binary value
		{1234567.891, "1234567.89"},
		{-500, "-500.00"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectionRequest(t *testing.T) {
	res, err := calc.ComputeProjection(calc.ProjectionInput{
		CurrentAge: 30, RetirementAge: 32, CurrentSavings: 1000, AnnualReturnRate: 0.10,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := Projection(res)
	if req.Title != "Retirement Savings" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.Message != "Your total savings at retirement will be $1210.00." {
		t.Errorf("Message = %q", req.Message)
	}
	if req.Chart == nil || req.Chart.Kind != ChartLine {
		t.Fatalf("Chart = %+v, want line chart", req.Chart)
	}
	if got := strings.Join(req.Chart.Labels, ","); got != "Year 1,Year 2" {
		t.Errorf("Labels = %q", got)
	}
	if len(req.Chart.Series) != 1 || len(req.Chart.Series[0].Values) != 2 {
		t.Fatalf("Series = %+v", req.Chart.Series)
	}
	if req.Chart.Series[0].Colors[0] != ColorSavings {
		t.Errorf("series color = %q, want %q", req.Chart.Series[0].Colors[0], ColorSavings)
	}

	// The chart must not alias the result slice.
	req.Chart.Series[0].Values[0] = -1
	if res.YearlyBalances[0] == -1 {
		t.Error("chart values alias the projection result")
	}
}

func TestProjectionRequest_UnderOneYear(t *testing.T) {
	res, err := calc.ComputeProjection(calc.ProjectionInput{CurrentAge: 40, RetirementAge: 40.5, CurrentSavings: 1000})
	if err != nil {
		t.Fatal(err)
	}
	req := Projection(res)
	if req.Message != "Your total savings at retirement will be $1000.00." {
		t.Errorf("Message = %q", req.Message)
	}
	if len(req.Chart.Labels) != 0 || len(req.Chart.Series[0].Values) != 0 {
		t.Errorf("Chart = %+v, want empty series", req.Chart)
	}
}

func TestBudgetRequest(t *testing.T) {
	surplus, _ := calc.ComputeBalance(5000, 3000)
	if got := Budget(surplus).Message; got != "You have a surplus of $2000.00." {
		t.Errorf("surplus message = %q", got)
	}

	deficit, _ := calc.ComputeBalance(1000, 1500)
	req := Budget(deficit)
	if req.Message != "You have a deficit of $500.00." {
		t.Errorf("deficit message = %q", req.Message)
	}
	if req.Chart.Kind != ChartDoughnut {
		t.Errorf("Kind = %q, want doughnut", req.Chart.Kind)
	}
	vals := req.Chart.Series[0].Values
	if vals[0] != 1000 || vals[1] != 1500 {
		t.Errorf("Values = %v, want [1000 1500]", vals)
	}
}

func TestExpenseRequest_CyclesPalette(t *testing.T) {
	var totals calc.Totals
	for _, c := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		totals = append(totals, calc.CategoryTotal{Category: c, Amount: 1})
	}

	req := Expense(totals, "ok")
	if req.Chart.Kind != ChartPie {
		t.Fatalf("Kind = %q, want pie", req.Chart.Kind)
	}
	colors := req.Chart.Series[0].Colors
	if len(colors) != 7 {
		t.Fatalf("len(colors) = %d, want 7", len(colors))
	}
	if colors[5] != CategoryPalette[0] || colors[6] != CategoryPalette[1] {
		t.Errorf("palette not cycled: %v", colors)
	}
}

func TestValidationRequest(t *testing.T) {
	_, err := calc.ComputeProjection(calc.ProjectionInput{CurrentAge: 60, RetirementAge: 50})
	req := Validation("Retirement Savings", err)
	if !req.Alert || req.Chart != nil {
		t.Errorf("request = %+v, want alert without chart", req)
	}
	if req.Message != "Retirement age must be greater than current age." {
		t.Errorf("Message = %q", req.Message)
	}

	_, err = calc.ParseAmount("income", "x")
	if got := AlertMessage(err); got != "Please enter valid numbers for income and expenses." {
		t.Errorf("income alert = %q", got)
	}

	_, err = calc.ComputeBalance(math.MaxFloat64, -math.MaxFloat64)
	if got := AlertMessage(err); !strings.Contains(got, "too large") {
		t.Errorf("out of range alert = %q", got)
	}

	if got := AlertMessage(errors.New("boom")); got != "boom" {
		t.Errorf("plain error alert = %q", got)
	}
}

func TestRequestJSONShape(t *testing.T) {
	res, _ := calc.ComputeBalance(10, 4)
	data, err := json.Marshal(Budget(res))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"title"`, `"message"`, `"chart"`, `"kind":"doughnut"`, `"labels"`, `"series"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
	if strings.Contains(string(data), `"alert"`) {
		t.Errorf("JSON %s should omit alert when false", data)
	}
}
