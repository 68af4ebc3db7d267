package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evearb",
		Short: "EVE Online cross-region arbitrage scanner",
		Long: `evearb discovers cross-region arbitrage opportunities on the EVE Online
market: items that can be bought cheaply in one region and resold at a
profit in another, net of broker fees, sales tax, and hauling cost.

Examples:
  evearb scan
  evearb scan --source "The Forge" --dest Domain
  evearb results --limit 20
  evearb item search Tritanium
  evearb item info 34 --region "The Forge"
  evearb inventory add --type-id 34 --name Tritanium --quantity 1000 --cost 5.5`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewResultsCommand())
	rootCmd.AddCommand(NewItemCommand())
	rootCmd.AddCommand(NewInventoryCommand())

	return rootCmd
}
