package calc

// BalanceResult is the outcome of a budget balance calculation.
type BalanceResult struct {
	Income    float64 `json:"income" yaml:"income"`
	Expenses  float64 `json:"expenses" yaml:"expenses"`
	Balance   float64 `json:"balance" yaml:"balance"`
	IsSurplus bool    `json:"is_surplus" yaml:"is_surplus"`
}

// ComputeBalance subtracts expenses from income. A zero balance counts as a surplus.
func ComputeBalance(income, expenses float64) (BalanceResult, error) {
	if !isFinite(income) {
		return BalanceResult{}, invalid("income", ReasonNonNumeric)
	}
	if !isFinite(expenses) {
		return BalanceResult{}, invalid("expenses", ReasonNonNumeric)
	}

	balance := income - expenses
	if !isFinite(balance) {
		return BalanceResult{}, invalid("", ReasonOutOfRange)
	}
	return BalanceResult{
		Income:    income,
		Expenses:  expenses,
		Balance:   balance,
		IsSurplus: balance >= 0,
	}, nil
}
