package calc

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeProjection_SingleYear(t *testing.T) {
	res, err := ComputeProjection(ProjectionInput{
		CurrentAge:          30,
		RetirementAge:       31,
		CurrentSavings:      1000,
		MonthlyContribution: 0,
		AnnualReturnRate:    0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.YearlyBalances) != 1 {
		t.Fatalf("len(YearlyBalances) = %d, want 1", len(res.YearlyBalances))
	}
	if res.YearlyBalances[0] != 1050.0 {
		t.Errorf("YearlyBalances[0] = %v, want 1050", res.YearlyBalances[0])
	}
	if res.FinalBalance != 1050.0 {
		t.Errorf("FinalBalance = %v, want 1050", res.FinalBalance)
	}
}

func TestComputeProjection_ContributionAddedAfterGrowth(t *testing.T) {
	res, err := ComputeProjection(ProjectionInput{
		CurrentAge:          40,
		RetirementAge:       42,
		CurrentSavings:      1000,
		MonthlyContribution: 100,
		AnnualReturnRate:    0.10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// year 1: 1000*1.1 + 1200 = 2300; year 2: 2300*1.1 + 1200 = 3730
	want := []float64{2300, 3730}
	for i, w := range want {
		if math.Abs(res.YearlyBalances[i]-w) > 1e-9 {
			t.Errorf("YearlyBalances[%d] = %v, want %v", i, res.YearlyBalances[i], w)
		}
	}
	if res.FinalBalance != res.YearlyBalances[len(res.YearlyBalances)-1] {
		t.Errorf("FinalBalance = %v, want last yearly balance %v", res.FinalBalance, res.YearlyBalances[1])
	}
}

func TestComputeProjection_LengthAndMonotonic(t *testing.T) {
	cases := []ProjectionInput{
		{CurrentAge: 25, RetirementAge: 65, CurrentSavings: 0, MonthlyContribution: 500, AnnualReturnRate: 0.07},
		{CurrentAge: 50, RetirementAge: 67, CurrentSavings: 250000, MonthlyContribution: 0, AnnualReturnRate: 0},
		{CurrentAge: 18, RetirementAge: 19, CurrentSavings: 10, MonthlyContribution: 1, AnnualReturnRate: 0.5},
		{CurrentAge: 30.5, RetirementAge: 40, CurrentSavings: 100, MonthlyContribution: 10, AnnualReturnRate: 0.03},
	}

	for _, in := range cases {
		res, err := ComputeProjection(in)
		if err != nil {
			t.Fatalf("ComputeProjection(%+v): %v", in, err)
		}
		years := int(math.Trunc(in.RetirementAge - in.CurrentAge))
		if len(res.YearlyBalances) != years {
			t.Errorf("%+v: len = %d, want %d", in, len(res.YearlyBalances), years)
		}
		for i := 1; i < len(res.YearlyBalances); i++ {
			if res.YearlyBalances[i] < res.YearlyBalances[i-1] {
				t.Errorf("%+v: balance decreased at year %d (%v < %v)", in, i+1, res.YearlyBalances[i], res.YearlyBalances[i-1])
			}
		}
	}
}

func TestComputeProjection_Idempotent(t *testing.T) {
	in := ProjectionInput{CurrentAge: 35, RetirementAge: 60, CurrentSavings: 12000, MonthlyContribution: 350, AnnualReturnRate: 0.065}
	a, err := ComputeProjection(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeProjection(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("ComputeProjection returned different results for identical input")
	}
}

func TestComputeProjection_Validation(t *testing.T) {
	tests := []struct {
		name   string
		in     ProjectionInput
		reason string
	}{
		{"equal ages", ProjectionInput{CurrentAge: 40, RetirementAge: 40}, ReasonInvalidAge},
		{"retire before now", ProjectionInput{CurrentAge: 40, RetirementAge: 30}, ReasonInvalidAge},
		{"span too long", ProjectionInput{CurrentAge: 0, RetirementAge: 1e15}, ReasonInvalidAge},
		{"just over cap", ProjectionInput{CurrentAge: 20, RetirementAge: 20 + MaxProjectionYears + 0.5}, ReasonInvalidAge},
		{"overflowing balance", ProjectionInput{CurrentAge: 30, RetirementAge: 40, CurrentSavings: 1e300, AnnualReturnRate: 100}, ReasonOutOfRange},
		{"nan savings", ProjectionInput{CurrentAge: 30, RetirementAge: 60, CurrentSavings: math.NaN()}, ReasonNonNumeric},
		{"inf rate", ProjectionInput{CurrentAge: 30, RetirementAge: 60, AnnualReturnRate: math.Inf(1)}, ReasonNonNumeric},
		{"nan age", ProjectionInput{CurrentAge: math.NaN(), RetirementAge: 60}, ReasonNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeProjection(tt.in)
			ve, ok := AsValidation(err)
			if !ok {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", ve.Reason, tt.reason)
			}
		})
	}
}

func TestComputeProjection_UnderOneYear(t *testing.T) {
	res, err := ComputeProjection(ProjectionInput{CurrentAge: 40, RetirementAge: 40.5, CurrentSavings: 1000})
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if res.Years() != 0 {
		t.Errorf("Years = %d, want 0", res.Years())
	}
	if res.FinalBalance != 1000 {
		t.Errorf("FinalBalance = %v, want 1000", res.FinalBalance)
	}
}

func TestComputeProjection_MaxSpan(t *testing.T) {
	res, err := ComputeProjection(ProjectionInput{CurrentAge: 0, RetirementAge: MaxProjectionYears, CurrentSavings: 1})
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if res.Years() != MaxProjectionYears {
		t.Errorf("Years = %d, want %d", res.Years(), MaxProjectionYears)
	}
}

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		income, expenses float64
		balance          float64
		surplus          bool
	}{
		{5000, 3000, 2000, true},
		{1000, 1500, -500, false},
		{1200, 1200, 0, true},
	}

	for _, tt := range tests {
		res, err := ComputeBalance(tt.income, tt.expenses)
		if err != nil {
			t.Fatalf("ComputeBalance(%v, %v): %v", tt.income, tt.expenses, err)
		}
		if res.Balance != tt.balance {
			t.Errorf("ComputeBalance(%v, %v).Balance = %v, want %v", tt.income, tt.expenses, res.Balance, tt.balance)
		}
		if res.IsSurplus != tt.surplus {
			t.Errorf("ComputeBalance(%v, %v).IsSurplus = %v, want %v", tt.income, tt.expenses, res.IsSurplus, tt.surplus)
		}
	}
}

func TestComputeBalance_RejectsNonFinite(t *testing.T) {
	if _, err := ComputeBalance(math.NaN(), 10); !IsValidation(err) {
		t.Errorf("NaN income: err = %v, want ValidationError", err)
	}
	if _, err := ComputeBalance(10, math.Inf(-1)); !IsValidation(err) {
		t.Errorf("-Inf expenses: err = %v, want ValidationError", err)
	}
	_, err := ComputeBalance(math.MaxFloat64, -math.MaxFloat64)
	if ve, ok := AsValidation(err); !ok || ve.Reason != ReasonOutOfRange {
		t.Errorf("overflowing balance: err = %v, want %q", err, ReasonOutOfRange)
	}
}

func TestTracker_AccumulatesByCategory(t *testing.T) {
	tr := NewTracker()

	if _, _, err := tr.RecordExpense("Coffee", 4.5, "Food"); err != nil {
		t.Fatal(err)
	}
	totals, msg, err := tr.RecordExpense("Lunch", 10, "Food")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]float64{"Food": 14.5}
	if got := totals.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("totals = %v, want %v", got, want)
	}
	if msg != `Expense "Lunch" added for $10.00 under "Food".` {
		t.Errorf("message = %q", msg)
	}
	if n := len(tr.Expenses()); n != 2 {
		t.Errorf("recorded expenses = %d, want 2", n)
	}
}

func TestTracker_KeepsFirstSeenOrder(t *testing.T) {
	tr := NewTracker()
	for _, e := range []struct {
		desc, cat string
		amt       float64
	}{
		{"Rent", "Housing", 900},
		{"Bus", "Transport", 2.5},
		{"Groceries", "Food", 60},
		{"Parking", "Transport", 5},
	} {
		if _, _, err := tr.RecordExpense(e.desc, e.amt, e.cat); err != nil {
			t.Fatal(err)
		}
	}

	totals := tr.Totals()
	var order []string
	for _, ct := range totals {
		order = append(order, ct.Category)
	}
	if want := []string{"Housing", "Transport", "Food"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if got, _ := totals.Get("Transport"); got != 7.5 {
		t.Errorf("Transport = %v, want 7.5", got)
	}
	if got := totals.Sum(); got != 967.5 {
		t.Errorf("Sum = %v, want 967.5", got)
	}
}

func TestTracker_RejectedInputLeavesStateUnchanged(t *testing.T) {
	tr := NewTracker()
	if _, _, err := tr.RecordExpense("Coffee", 4.5, "Food"); err != nil {
		t.Fatal(err)
	}
	before := tr.Totals()

	bad := []struct {
		desc string
		amt  float64
	}{
		{"", 5},
		{"   ", 5},
		{"Snack", math.NaN()},
		{"Snack", 0},
		{"Snack", -3},
	}
	for _, b := range bad {
		if _, _, err := tr.RecordExpense(b.desc, b.amt, "Food"); !IsValidation(err) {
			t.Errorf("RecordExpense(%q, %v) err = %v, want ValidationError", b.desc, b.amt, err)
		}
	}

	if after := tr.Totals(); !reflect.DeepEqual(before, after) {
		t.Errorf("totals changed after rejected input: %v -> %v", before, after)
	}
	if n := len(tr.Expenses()); n != 1 {
		t.Errorf("recorded expenses = %d, want 1", n)
	}
}

func TestTracker_RejectsOverflowingTotals(t *testing.T) {
	tr := NewTracker()
	if _, _, err := tr.RecordExpense("Yacht", 1e308, "X"); err != nil {
		t.Fatal(err)
	}
	before := tr.Totals()

	_, _, err := tr.RecordExpense("Another yacht", 1e308, "X")
	if ve, ok := AsValidation(err); !ok || ve.Reason != ReasonOutOfRange {
		t.Fatalf("same category: err = %v, want %q", err, ReasonOutOfRange)
	}
	// The grand total overflows even when each category would not.
	_, _, err = tr.RecordExpense("Jet", 1e308, "Y")
	if ve, ok := AsValidation(err); !ok || ve.Reason != ReasonOutOfRange {
		t.Fatalf("new category: err = %v, want %q", err, ReasonOutOfRange)
	}

	if after := tr.Totals(); !reflect.DeepEqual(before, after) {
		t.Errorf("totals changed after rejected input: %v -> %v", before, after)
	}
	if n := len(tr.Expenses()); n != 1 {
		t.Errorf("recorded expenses = %d, want 1", n)
	}
}

func TestTracker_ReplayAndReset(t *testing.T) {
	tr := NewTracker()
	tr.Replay(Expense{ID: "a", Description: "Book", Amount: 12, Category: "Fun"})
	tr.Replay(Expense{ID: "b", Description: "Film", Amount: 8, Category: "Fun"})

	if got, _ := tr.Totals().Get("Fun"); got != 20 {
		t.Errorf("Fun = %v, want 20", got)
	}
	last, ok := tr.Last()
	if !ok || last.ID != "b" {
		t.Errorf("Last = %+v, %v; want ID b", last, ok)
	}

	tr.Reset()
	if n := len(tr.Totals()); n != 0 {
		t.Errorf("totals after reset = %d categories, want 0", n)
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last reported an expense after reset")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{" 3.5 ", 3.5, false},
		{"$1,250.75", 1250.75, false},
		{"-12", -12, false},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAmount("field", tt.raw)
		if tt.wantErr {
			if !IsValidation(err) {
				t.Errorf("ParseAmount(%q) err = %v, want ValidationError", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	got, err := ParsePercent("annual return", "7%")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.07) > 1e-12 {
		t.Errorf("ParsePercent(7%%) = %v, want 0.07", got)
	}

	_, err = ParsePercent("annual return", "seven")
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Field != "annual return" {
		t.Errorf("Field = %q, want %q", ve.Field, "annual return")
	}
}
