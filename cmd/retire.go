package cmd

import (
	"github.com/theirongolddev/fincalc/internal/app"

	"github.com/spf13/cobra"
)

var (
	flagCurrentAge    string
	flagRetirementAge string
	flagSavings       string
	flagMonthly       string
	flagReturn        string
)

var retireCmd = &cobra.Command{
	Use:   "retire",
	Short: "Project retirement savings year by year",
	Example: `  fincalc retire --current-age 30 --retirement-age 65 \
    --savings 10000 --monthly 500 --return 7`,
	RunE: runRetire,
}

func init() {
	retireCmd.Flags().StringVar(&flagCurrentAge, "current-age", "", "Current age in years")
	retireCmd.Flags().StringVar(&flagRetirementAge, "retirement-age", "", "Planned retirement age")
	retireCmd.Flags().StringVar(&flagSavings, "savings", "", "Current savings")
	retireCmd.Flags().StringVar(&flagMonthly, "monthly", "", "Monthly contribution")
	retireCmd.Flags().StringVar(&flagReturn, "return", "", "Expected annual return, in percent")
	rootCmd.AddCommand(retireCmd)
}

func runRetire(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	return runAction(cmd.Context(), rt, app.ActionRetirement, app.Fields{
		app.FieldCurrentAge:          flagCurrentAge,
		app.FieldRetirementAge:       flagRetirementAge,
		app.FieldCurrentSavings:      flagSavings,
		app.FieldMonthlyContribution: flagMonthly,
		app.FieldAnnualReturn:        flagReturn,
	})
}
