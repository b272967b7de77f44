package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marginsim/config"
	"marginsim/internal/id"
	"marginsim/journal"
	"marginsim/market"
	"marginsim/marketdata"
	"marginsim/perf"
	"marginsim/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pair-margin simulation from a scenario file",
	Long: `Run loads the scenario, builds the aligned market series (from local
files, or downloaded with --fetch), folds the account forward day by day,
journals the run, and prints the performance summary.

Example:
  marginsim run --config scenario.yaml --tail 10`,
	RunE: runRun,
}

var (
	runConfigPath string
	runFetchFlag  bool
	runTail       int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to scenario file (required)")
	runCmd.Flags().BoolVar(&runFetchFlag, "fetch", false, "download market data instead of reading local files")
	runCmd.Flags().IntVar(&runTail, "tail", 0, "print the last N ledger rows")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	tradeDate, err := cfg.TradeDate()
	if err != nil {
		return err
	}

	series, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ledger, err := sim.Simulate(series, tradeDate, cfg.Pair(), cfg.Accrual())
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	summary := perf.Summarize(ledger, cfg.Account.Annualization)

	runID := id.NewRun()
	run := journal.NewRunRecord(runID, cfg.Pair(), summary)
	records := journal.LedgerRecords(runID, ledger)

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if err := journal.Record(j, run, records); err != nil {
		j.Close()
		return fmt.Errorf("journal run: %w", err)
	}
	if err := j.Close(); err != nil {
		return err
	}

	printRuns(cmd.OutOrStdout(), []journal.RunRecord{run})

	if runTail > 0 {
		n := runTail
		if n > len(records) {
			n = len(records)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nLast %d ledger rows:\n", n)
		printLedger(cmd.OutOrStdout(), records[len(records)-n:])
	}
	return nil
}

// loadSeries builds the aligned series from the scenario's data files, or
// downloads them when --fetch is set.
func loadSeries(ctx context.Context, cfg *config.Config) (market.Series, error) {
	var (
		long, short []market.Quote
		fixings     []market.Fixing
		err         error
	)

	if runFetchFlag {
		start, end, werr := window(cfg)
		if werr != nil {
			return nil, werr
		}
		client := marketdata.NewClient()

		if long, err = client.DailyCloses(ctx, cfg.Scenario.LongSymbol, start, end); err != nil {
			return nil, err
		}
		if short, err = client.DailyCloses(ctx, cfg.Scenario.ShortSymbol, start, end); err != nil {
			return nil, err
		}
		if fixings, err = client.RateFixings(ctx, cfg.Rates.Series, start, end); err != nil {
			return nil, err
		}
	} else {
		if long, err = marketdata.LoadQuotesFile(cfg.Data.LongFile); err != nil {
			return nil, fmt.Errorf("long quotes: %w", err)
		}
		if short, err = marketdata.LoadQuotesFile(cfg.Data.ShortFile); err != nil {
			return nil, fmt.Errorf("short quotes: %w", err)
		}
		if fixings, err = marketdata.LoadFixingsFile(cfg.Data.RatesFile, true); err != nil {
			return nil, fmt.Errorf("rate fixings: %w", err)
		}
	}

	return market.Align(long, short, fixings)
}

// window resolves the data window: start defaults to the trade date, end to
// today.
func window(cfg *config.Config) (time.Time, time.Time, error) {
	start, err := cfg.TradeDate()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if cfg.Scenario.Start != "" {
		if start, err = market.ParseDate(cfg.Scenario.Start); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	end := market.Midnight(time.Now())
	if cfg.Scenario.End != "" {
		if end, err = market.ParseDate(cfg.Scenario.End); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "sqlite" {
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.LedgerFile)
}
