package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagAmount   string
	flagCategory string
	flagYes      bool
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Track expenses by category",
}

var expenseAddCmd = &cobra.Command{
	Use:     "add <description>",
	Short:   "Record an expense and show category totals",
	Example: `  fincalc expense add "Coffee" --amount 4.50 --category Food`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded expenses and category totals",
	RunE:  runExpenseList,
}

var expenseResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every recorded expense",
	RunE:  runExpenseReset,
}

func init() {
	expenseAddCmd.Flags().StringVarP(&flagAmount, "amount", "a", "", "Expense amount")
	expenseAddCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Expense category (default from config)")
	expenseResetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseResetCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.ledger == nil {
		info("Ledger disabled; this expense will not be kept after exit")
	}

	return runAction(cmd.Context(), rt, app.ActionAddExpense, app.Fields{
		app.FieldDescription: strings.Join(args, " "),
		app.FieldAmount:      flagAmount,
		app.FieldCategory:    flagCategory,
	})
}

type expenseList struct {
	Expenses []calc.Expense `json:"expenses" yaml:"expenses"`
	Totals   calc.Totals    `json:"totals" yaml:"totals"`
	Total    float64        `json:"total" yaml:"total"`
}

func runExpenseList(_ *cobra.Command, _ []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	tr := rt.disp.State().Expenses
	list := expenseList{
		Expenses: tr.Expenses(),
		Totals:   tr.Totals(),
	}
	list.Total = list.Totals.Sum()

	if flagFormat != cli.FormatTable {
		return cli.Encode(os.Stdout, flagFormat, list)
	}

	if len(list.Expenses) == 0 {
		fmt.Println("\n  No expenses recorded.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Expenses"))
	fmt.Println()

	rows := make([][]string, 0, len(list.Expenses))
	for _, e := range list.Expenses {
		rows = append(rows, []string{
			e.RecordedAt.Local().Format("2006-01-02 15:04"),
			e.Description,
			e.Category,
			cli.FormatMoney(e.Amount),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Recorded", "Description", "Category", "Amount"},
		Rows:    rows,
	}))

	totalRows := make([][]string, 0, len(list.Totals)+1)
	for _, ct := range list.Totals {
		totalRows = append(totalRows, []string{
			ct.Category,
			cli.FormatMoney(ct.Amount),
			cli.FormatPercent(ct.Amount / list.Total),
		})
	}
	totalRows = append(totalRows, []string{"Total", cli.FormatMoney(list.Total), ""})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Category",
		Headers:   []string{"Category", "Amount", "Share"},
		Rows:      totalRows,
		TotalRows: 1,
	}))
	return nil
}

func runExpenseReset(_ *cobra.Command, _ []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.ledger == nil {
		return fmt.Errorf("no ledger to reset (ledger disabled or unavailable)")
	}

	n, err := rt.ledger.Count()
	if err != nil {
		return fmt.Errorf("counting expenses: %w", err)
	}
	if !flagYes {
		ok, err := confirm(fmt.Sprintf("Delete %d recorded expenses?", n))
		if err != nil {
			return err
		}
		if !ok {
			info("Nothing deleted")
			return nil
		}
	}

	if err := rt.ledger.Reset(); err != nil {
		return err
	}
	rt.disp.State().Expenses.Reset()
	info("Deleted %d expenses from %s", n, config.LedgerPath(rt.cfg))
	return nil
}

func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return ok, nil
}
