package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marginsim/config"
	"marginsim/market"
	"marginsim/marketdata"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the scenario's market data to local CSV files",
	Long: `Fetch downloads the daily closes of both legs and the reference-rate
fixings for the scenario window, and writes them as CSV files that a later
offline run can read.

Example:
  marginsim fetch --config scenario.yaml --out ./data`,
	RunE: runFetch,
}

var (
	fetchConfigPath string
	fetchOutDir     string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchConfigPath, "config", "c", "", "path to scenario file (required)")
	fetchCmd.Flags().StringVarP(&fetchOutDir, "out", "o", "./data", "output directory")
	fetchCmd.MarkFlagRequired("config")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(fetchConfigPath)
	if err != nil {
		return err
	}

	start, end, err := window(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fetchOutDir, 0755); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := marketdata.NewClient()

	for _, symbol := range []string{cfg.Scenario.LongSymbol, cfg.Scenario.ShortSymbol} {
		quotes, err := client.DailyCloses(ctx, symbol, start, end)
		if err != nil {
			return err
		}
		path := filepath.Join(fetchOutDir, strings.ToLower(symbol)+".csv")
		if err := writeQuotesCSV(path, quotes); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d quotes to %s\n", len(quotes), path)
	}

	fixings, err := client.RateFixings(ctx, cfg.Rates.Series, start, end)
	if err != nil {
		return err
	}
	path := filepath.Join(fetchOutDir, strings.ToLower(cfg.Rates.Series)+".csv")
	if err := writeFixingsCSV(path, cfg.Rates.Series, fixings); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d fixings to %s\n", len(fixings), path)

	return nil
}

func writeQuotesCSV(path string, quotes []market.Quote) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Close"}); err != nil {
		return err
	}
	for _, q := range quotes {
		if err := w.Write([]string{
			q.Date.Format(market.DateFormat),
			strconv.FormatFloat(q.Close, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeFixingsCSV keeps the FRED convention (values in percent) so the
// file round-trips through the same parser as a direct download.
func writeFixingsCSV(path, series string, fixings []market.Fixing) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"observation_date", series}); err != nil {
		return err
	}
	for _, fx := range fixings {
		if err := w.Write([]string{
			fx.Date.Format(market.DateFormat),
			strconv.FormatFloat(fx.Rate*100, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
