package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"marginsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate scenario files",
	Long: `Manage scenario configuration files.

Examples:
  marginsim config init --output scenario.yaml
  marginsim config validate --file scenario.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default scenario file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "scenario.yaml", "output scenario file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to scenario file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default scenario: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  marginsim run --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Scenario valid: %s\n", configValidatePath)
	fmt.Printf("  Pair: long %s / short %s, trade date %s\n",
		cfg.Scenario.LongSymbol, cfg.Scenario.ShortSymbol, cfg.Scenario.TradeDate)
	fmt.Printf("  Deposit: $%.2f  Maintenance: %.0f%%\n",
		cfg.Account.Deposit, cfg.Account.MaintenanceRatio*100)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
