// Command settle computes group balances and suggested transfers from a
// CSV of expenses, without needing a running server. Useful for settling
// a one-off event from a spreadsheet export.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jfigueroa/gastoshogar/internal/calculator"
	"github.com/jfigueroa/gastoshogar/internal/currency"
	"github.com/jfigueroa/gastoshogar/internal/models"
)

// expenseRow is one CSV line: who paid what and who shares it. The
// split_with column holds names separated by semicolons; empty means
// everyone listed in the file shares the expense.
type expenseRow struct {
	Description string          `csv:"description"`
	Amount      decimal.Decimal `csv:"amount"`
	PaidBy      string          `csv:"paid_by"`
	SplitWith   string          `csv:"split_with"`
}

var inputFile string

var rootCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle shared expenses from a CSV file",
	Long: `settle reads expense rows (description, amount, paid_by, split_with)
and prints each participant's net balance plus the transfers that square
everyone up.`,
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute balances and suggested transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", inputFile, err)
		}
		defer file.Close()

		return runCompute(file, cmd.OutOrStdout())
	},
}

func init() {
	computeCmd.Flags().StringVarP(&inputFile, "file", "f", "", "CSV file with expense rows")
	_ = computeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(computeCmd)
}

// parseRows reads CSV expense rows and derives the participant roster
// from the names the rows mention, in first-appearance order.
func parseRows(r io.Reader) ([]models.GroupExpense, []string, error) {
	var rows []expenseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	seen := make(map[string]struct{})
	var participants []string
	addParticipant := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			participants = append(participants, name)
		}
	}

	expenses := make([]models.GroupExpense, 0, len(rows))
	for i, row := range rows {
		paidBy := strings.TrimSpace(row.PaidBy)
		if paidBy == "" {
			return nil, nil, fmt.Errorf("row %d: paid_by is required", i+1)
		}
		if !row.Amount.IsPositive() {
			return nil, nil, fmt.Errorf("row %d: amount must be positive", i+1)
		}
		addParticipant(paidBy)

		var splitWith []string
		for _, name := range strings.Split(row.SplitWith, ";") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			splitWith = append(splitWith, name)
			addParticipant(name)
		}

		expenses = append(expenses, models.GroupExpense{
			Description: row.Description,
			Amount:      row.Amount,
			PaidBy:      paidBy,
			SplitWith:   splitWith,
		})
	}

	// Rows without an explicit split share among everyone mentioned
	// anywhere in the file.
	for i := range expenses {
		if len(expenses[i].SplitWith) == 0 {
			expenses[i].SplitWith = participants
		}
	}
	return expenses, participants, nil
}

func runCompute(r io.Reader, w io.Writer) error {
	expenses, participants, err := parseRows(r)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return nil
	}

	summary := calculator.ComputeGroupBalances(participants, expenses)

	fmt.Fprintf(w, "Total: %s\n\n", currency.Format(summary.Total))
	fmt.Fprintln(w, "Balances:")
	for _, name := range participants {
		fmt.Fprintf(w, "  %-20s %s\n", name, currency.Format(summary.Balances[name]))
	}

	if len(summary.Settlements) == 0 {
		fmt.Fprintln(w, "\nAll settled, nothing to transfer.")
		return nil
	}

	fmt.Fprintln(w, "\nSuggested transfers:")
	for _, t := range summary.Settlements {
		fmt.Fprintf(w, "  %s -> %s: %s\n", t.From, t.To, currency.Format(t.Amount))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
