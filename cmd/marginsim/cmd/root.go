package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marginsim",
	Short: "Margin-account simulator for long/short equity pairs",
	Long: `Marginsim replays a long/short equity pair through a margin account,
day by day, the way a broker statement would:

  - interest on cash balances (credit or financing) on an ACT/360 basis
  - stock-borrow fees on the short leg
  - a variation-margin requirement on gross exposure, met by
    synthetic contributions
  - contribution-adjusted daily returns and a Sharpe-style summary

Market data comes from local CSV files or the Stooq/FRED endpoints, and
every run can be journaled to CSV files or a SQLite database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
