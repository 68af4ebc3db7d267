package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var source string
	var dest string
	var limit int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan configured region pairs for arbitrage opportunities",
		Long: `Scan region pairs for arbitrage opportunities.

Without flags, all configured pairs are scanned in both directions.
With --source and --dest, only that single directed route is scanned;
stored results for other routes are left untouched.

Examples:
  evearb scan
  evearb scan --source "The Forge" --dest Domain
  evearb scan --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (source == "") != (dest == "") {
				return fmt.Errorf("--source and --dest must be given together")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var routes []trading.Route
			if source != "" {
				routes = []trading.Route{{Source: source, Destination: dest}}
			}

			summary, err := a.orchestrator.RunScan(context.Background(), routes)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			printScanSummary(summary, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source region name (buy side)")
	cmd.Flags().StringVar(&dest, "dest", "", "Destination region name (sell side)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum opportunities to display")

	return cmd
}

func printScanSummary(summary *services.ScanSummary, limit int) {
	fmt.Printf("\nScan %s: %d routes attempted, %d succeeded, %d failed\n",
		summary.ScanID, summary.Attempted, summary.Succeeded, summary.Failed())

	for _, failure := range summary.Failures {
		fmt.Printf("  ✗ %s: %s\n", failure.Route, failure.Reason)
	}

	if len(summary.Opportunities) == 0 {
		fmt.Println("\nNo opportunities found.")
		return
	}

	fmt.Printf("\nFound %d opportunities:\n\n", len(summary.Opportunities))
	printOpportunities(summary.Opportunities, limit)
}

func printOpportunities(opportunities []*trading.Opportunity, limit int) {
	fmt.Printf("%-4s %-30s %-24s %12s %12s %8s %8s %14s\n",
		"#", "Item", "Route", "Buy", "Sell", "Qty", "Margin", "Total Profit")

	for i, opp := range opportunities {
		if limit > 0 && i >= limit {
			fmt.Printf("... and %d more\n", len(opportunities)-limit)
			break
		}
		fmt.Printf("%-4d %-30s %-24s %12.2f %12.2f %8d %7.1f%% %14.0f\n",
			i+1,
			truncate(opp.ItemName(), 30),
			truncate(opp.Route().String(), 24),
			opp.BuyPrice(),
			opp.SellPrice(),
			opp.VolumeAvailable(),
			opp.ProfitMarginPct(),
			opp.TotalProfitPotential(),
		)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
