// Package config loads and validates simulation scenario files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"marginsim/market"
	"marginsim/perf"
	"marginsim/rates"
	"marginsim/sim"
)

// Config represents a complete simulation scenario.
type Config struct {
	Scenario ScenarioConfig `json:"scenario" yaml:"scenario"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Rates    RatesConfig    `json:"rates" yaml:"rates"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// ScenarioConfig names the pair and the simulation window.
type ScenarioConfig struct {
	LongSymbol  string `json:"long_symbol" yaml:"long_symbol"`
	ShortSymbol string `json:"short_symbol" yaml:"short_symbol"`
	TradeDate   string `json:"trade_date" yaml:"trade_date"`
	Start       string `json:"start" yaml:"start"`
	End         string `json:"end,omitempty" yaml:"end,omitempty"`
}

// AccountConfig contains the account sizing and margin policy.
type AccountConfig struct {
	LongNotional     float64 `json:"long_notional" yaml:"long_notional"`
	ShortNotional    float64 `json:"short_notional" yaml:"short_notional"`
	Deposit          float64 `json:"deposit" yaml:"deposit"`
	MaintenanceRatio float64 `json:"maintenance_ratio" yaml:"maintenance_ratio"`
	MarginBuffer     float64 `json:"margin_buffer" yaml:"margin_buffer"`
	DayCount         float64 `json:"day_count" yaml:"day_count"`
	Annualization    float64 `json:"annualization" yaml:"annualization"`
}

// RatesConfig names the reference-rate series and the account spreads.
type RatesConfig struct {
	Series       string  `json:"series" yaml:"series"`
	CreditSpread float64 `json:"credit_spread" yaml:"credit_spread"`
	DebitSpread  float64 `json:"debit_spread" yaml:"debit_spread"`
	BorrowRate   float64 `json:"borrow_rate" yaml:"borrow_rate"`
}

// DataConfig points at the local market-data files. Quote files may be
// plain CSV or a .gz/.xz/.zip archive of one.
type DataConfig struct {
	LongFile  string `json:"long_file" yaml:"long_file"`
	ShortFile string `json:"short_file" yaml:"short_file"`
	RatesFile string `json:"rates_file" yaml:"rates_file"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	LedgerFile string `json:"ledger_file,omitempty" yaml:"ledger_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads a scenario from a file (YAML or JSON based on
// content), applies .env / environment overrides, and validates it.
func LoadFromFile(path string) (*Config, error) {
	// Load .env if present; missing file is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment point a scenario at a different
// journal target without editing the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MARGINSIM_DB"); v != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("MARGINSIM_JOURNAL"); v != "" {
		cfg.Journal.Type = v
	}
}

// SaveToFile saves the scenario to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the scenario is coherent and runnable.
func (c *Config) Validate() error {
	if c.Scenario.LongSymbol == "" || c.Scenario.ShortSymbol == "" {
		return fmt.Errorf("scenario.long_symbol and scenario.short_symbol are required")
	}
	if _, err := market.ParseDate(c.Scenario.TradeDate); err != nil {
		return fmt.Errorf("scenario.trade_date: %w", err)
	}
	if c.Scenario.Start != "" {
		if _, err := market.ParseDate(c.Scenario.Start); err != nil {
			return fmt.Errorf("scenario.start: %w", err)
		}
	}
	if c.Scenario.End != "" {
		if _, err := market.ParseDate(c.Scenario.End); err != nil {
			return fmt.Errorf("scenario.end: %w", err)
		}
	}
	if c.Account.LongNotional <= 0 || c.Account.ShortNotional <= 0 {
		return fmt.Errorf("account notionals must be positive")
	}
	if c.Account.Deposit <= 0 {
		return fmt.Errorf("account.deposit must be positive")
	}
	if err := c.Accrual().Validate(); err != nil {
		return err
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.RunsFile == "" || c.Journal.LedgerFile == "") {
		return fmt.Errorf("journal runs_file and ledger_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Pair returns the position-initiation parameters.
func (c *Config) Pair() sim.PairConfig {
	return sim.PairConfig{
		LongSymbol:    c.Scenario.LongSymbol,
		ShortSymbol:   c.Scenario.ShortSymbol,
		LongNotional:  c.Account.LongNotional,
		ShortNotional: c.Account.ShortNotional,
		Deposit:       c.Account.Deposit,
	}
}

// Accrual returns the daily-recurrence policy.
func (c *Config) Accrual() sim.AccrualConfig {
	return sim.AccrualConfig{
		MaintenanceRatio: c.Account.MaintenanceRatio,
		Buffer:           c.Account.MarginBuffer,
		DayCount:         c.Account.DayCount,
		Schedule: rates.Schedule{
			CreditSpread: c.Rates.CreditSpread,
			DebitSpread:  c.Rates.DebitSpread,
			BorrowRate:   c.Rates.BorrowRate,
		},
	}
}

// TradeDate parses the scenario trade date.
func (c *Config) TradeDate() (time.Time, error) {
	return market.ParseDate(c.Scenario.TradeDate)
}

// Default returns a scenario with the reference parameters.
func Default() *Config {
	return &Config{
		Scenario: ScenarioConfig{
			LongSymbol:  "NVDA",
			ShortSymbol: "AVGO",
			TradeDate:   "2024-10-01",
			Start:       "2024-09-30",
		},
		Account: AccountConfig{
			LongNotional:     1_000_000,
			ShortNotional:    1_000_000,
			Deposit:          1_000_000,
			MaintenanceRatio: 0.40,
			MarginBuffer:     1.0,
			DayCount:         360,
			Annualization:    perf.DefaultAnnualization,
		},
		Rates: RatesConfig{
			Series:       "SOFR",
			CreditSpread: rates.DefaultSpread,
			DebitSpread:  rates.DefaultSpread,
			BorrowRate:   rates.DefaultBorrowRate,
		},
		Data: DataConfig{
			LongFile:  "./data/nvda.csv",
			ShortFile: "./data/avgo.csv",
			RatesFile: "./data/sofr.csv",
		},
		Journal: JournalConfig{
			Type:       "csv",
			RunsFile:   "./runs.csv",
			LedgerFile: "./ledger.csv",
		},
	}
}
