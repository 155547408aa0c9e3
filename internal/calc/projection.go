package calc

import "math"

// MaxProjectionYears bounds the span between current and retirement age.
const MaxProjectionYears = 150

// ProjectionInput holds the retirement calculator inputs.
// AnnualReturnRate is a fraction (0.07 for 7%).
type ProjectionInput struct {
	CurrentAge          float64 `json:"current_age" yaml:"current_age"`
	RetirementAge       float64 `json:"retirement_age" yaml:"retirement_age"`
	CurrentSavings      float64 `json:"current_savings" yaml:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution" yaml:"monthly_contribution"`
	AnnualReturnRate    float64 `json:"annual_return_rate" yaml:"annual_return_rate"`
}

// ProjectionResult is the year-by-year balance series.
// YearlyBalances[i] is the balance at the end of year i+1.
type ProjectionResult struct {
	YearlyBalances []float64 `json:"yearly_balances" yaml:"yearly_balances"`
	FinalBalance   float64   `json:"final_balance" yaml:"final_balance"`
}

// Years returns the number of annual steps in the projection.
func (r ProjectionResult) Years() int {
	return len(r.YearlyBalances)
}

// ComputeProjection compounds the running balance once per year and then adds
// twelve months of contributions as a lump sum. The contribution itself is not
// compounded within the year it is made.
func ComputeProjection(in ProjectionInput) (ProjectionResult, error) {
	for _, v := range []float64{
		in.CurrentAge,
		in.RetirementAge,
		in.CurrentSavings,
		in.MonthlyContribution,
		in.AnnualReturnRate,
	} {
		if !isFinite(v) {
			return ProjectionResult{}, invalid("", ReasonNonNumeric)
		}
	}

	span := in.RetirementAge - in.CurrentAge
	if span <= 0 || span > MaxProjectionYears {
		return ProjectionResult{}, invalid("", ReasonInvalidAge)
	}

	// Fractional spans truncate toward zero; a span under one year has no
	// annual step and the final balance is the current savings.
	years := int(math.Trunc(span))

	growth := 1 + in.AnnualReturnRate
	annualContribution := in.MonthlyContribution * 12

	balances := make([]float64, years)
	balance := in.CurrentSavings
	for i := range balances {
		balance = balance*growth + annualContribution
		if !isFinite(balance) {
			return ProjectionResult{}, invalid("", ReasonOutOfRange)
		}
		balances[i] = balance
	}

	return ProjectionResult{
		YearlyBalances: balances,
		FinalBalance:   balance,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
