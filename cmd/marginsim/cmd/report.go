package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"marginsim/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show journaled runs from a SQLite journal",
	Long: `Report lists the runs recorded in a SQLite journal, or shows one run's
summary and the tail of its ledger.

Examples:
  marginsim report --db runs.sqlite
  marginsim report --db runs.sqlite --run 01JD... --tail 15`,
	RunE: runReport,
}

var (
	reportDBPath string
	reportRunID  string
	reportTail   int
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDBPath, "db", "d", "", "path to SQLite journal DB (required)")
	reportCmd.Flags().StringVarP(&reportRunID, "run", "r", "", "show a single run by ID")
	reportCmd.Flags().IntVar(&reportTail, "tail", 10, "ledger rows to print with --run")
	reportCmd.MarkFlagRequired("db")
}

func runReport(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	out := cmd.OutOrStdout()

	if reportRunID == "" {
		runs, err := j.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		printRuns(out, runs)
		return nil
	}

	run, err := j.GetRun(reportRunID)
	if err != nil {
		return err
	}
	printRuns(out, []journal.RunRecord{run})

	rows, err := j.ListLedger(reportRunID)
	if err != nil {
		return err
	}
	n := reportTail
	if n > len(rows) {
		n = len(rows)
	}
	if n > 0 {
		fmt.Fprintf(out, "\nLast %d ledger rows:\n", n)
		printLedger(out, rows[len(rows)-n:])
	}
	return nil
}
