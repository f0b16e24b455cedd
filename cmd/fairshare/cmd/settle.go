package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/ledgerfile"
)

var (
	settleRaw  bool
	settleJSON bool
)

// settleCmd represents the settle command.
var settleCmd = &cobra.Command{
	Use:   "settle FILE",
	Short: "Print balances and a settle-up plan for a ledger file",
	Long: `Read people, expenses and settlements from a YAML or JSON ledger file
and print:

- each member's lent, borrowed and net totals
- the net pairwise balances
- the simplified list of payments that settles the group

Amounts are rounded to cents unless --raw is given.

Example:
  fairshare settle trip.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettle(cmd.OutOrStdout(), args[0], settleRaw, settleJSON)
	},
}

func init() {
	settleCmd.Flags().BoolVar(&settleRaw, "raw", false, "print unrounded amounts")
	settleCmd.Flags().BoolVar(&settleJSON, "json", false, "print the result as JSON")
}

type settleReport struct {
	Positions  []calculator.MemberBalance  `json:"positions"`
	Balances   []calculator.Balance        `json:"balances"`
	Simplified []calculator.SimplifiedDebt `json:"simplified"`
}

func runSettle(w io.Writer, path string, raw, asJSON bool) error {
	ledger, err := ledgerfile.Load(path)
	if err != nil {
		return err
	}
	slog.Debug("Ledger loaded", "path", path, "people", len(ledger.People), "entries", len(ledger.Expenses))

	balances := calculator.CalculateBalances(ledger.Expenses, ledger.People)
	report := settleReport{
		Positions:  calculator.NetPositions(ledger.Expenses, ledger.People),
		Balances:   balances,
		Simplified: calculator.SimplifyDebts(balances),
	}
	slog.Debug("Debts simplified", "balances", len(report.Balances), "payments", len(report.Simplified))

	if !raw {
		report.Positions = calculator.RoundPositions(report.Positions)
		report.Balances = calculator.RoundBalances(report.Balances)
		report.Simplified = calculator.RoundDebts(report.Simplified)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	amount := func(v float64) string {
		if raw {
			return fmt.Sprintf("%g", v)
		}
		return fmt.Sprintf("%.2f", v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "=== Members ===")
	fmt.Fprintln(tw, "NAME\tLENT\tBORROWED\tNET")
	for _, p := range report.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ledger.Name(p.PersonID), amount(p.Lent), amount(p.Borrowed), amount(p.Net))
	}

	fmt.Fprintln(tw, "\n=== Balances ===")
	if len(report.Balances) == 0 {
		fmt.Fprintln(tw, "All settled up.")
	}
	for _, b := range report.Balances {
		fmt.Fprintf(tw, "%s owes %s\t%s\n", ledger.Name(b.From), ledger.Name(b.To), amount(b.Amount))
	}

	fmt.Fprintln(tw, "\n=== Settle up ===")
	if len(report.Simplified) == 0 {
		fmt.Fprintln(tw, "Nothing to pay.")
	}
	for _, d := range report.Simplified {
		fmt.Fprintf(tw, "%s pays %s\t%s\n", ledger.Name(d.From), ledger.Name(d.To), amount(d.Amount))
	}

	return tw.Flush()
}
