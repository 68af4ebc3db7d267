package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewResultsCommand creates the results command.
func NewResultsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show stored opportunities from the last scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			last, err := a.results.LastScanTime(ctx)
			if err != nil {
				return err
			}
			if last == nil {
				fmt.Println("No scan results stored yet. Run `evearb scan` first.")
				return nil
			}

			opportunities, err := a.results.FindTop(ctx, limit)
			if err != nil {
				return err
			}

			fmt.Printf("Last scan: %s\n\n", last.Format("2006-01-02 15:04:05 MST"))
			printOpportunities(opportunities, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum opportunities to display")

	return cmd
}
