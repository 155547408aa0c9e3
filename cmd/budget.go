package cmd

import (
	"github.com/theirongolddev/fincalc/internal/app"

	"github.com/spf13/cobra"
)

var (
	flagIncome   string
	flagExpenses string
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Short:   "Compare monthly income against expenses",
	Example: "  fincalc budget --income 5000 --expenses 3200",
	RunE:    runBudget,
}

func init() {
	budgetCmd.Flags().StringVar(&flagIncome, "income", "", "Monthly income")
	budgetCmd.Flags().StringVar(&flagExpenses, "expenses", "", "Monthly expenses")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	return runAction(cmd.Context(), rt, app.ActionBudget, app.Fields{
		app.FieldIncome:   flagIncome,
		app.FieldExpenses: flagExpenses,
	})
}
