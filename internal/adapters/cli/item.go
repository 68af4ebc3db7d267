package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewItemCommand creates the item command with subcommands.
func NewItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Look up tradeable items",
	}

	cmd.AddCommand(newItemSearchCommand())
	cmd.AddCommand(newItemInfoCommand())

	return cmd
}

func newItemSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			refs, err := a.books.SearchItems(context.Background(), query)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Printf("No items match %q.\n", query)
				return nil
			}

			fmt.Printf("%-10s %s\n", "Type ID", "Name")
			for _, ref := range refs {
				fmt.Printf("%-10d %s\n", ref.TypeID, ref.Name)
			}
			return nil
		},
	}
}

func newItemInfoCommand() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "info <type-id>",
		Short: "Show item metadata and, optionally, its best prices in a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := strconv.Atoi(args[0])
			if err != nil || typeID <= 0 {
				return fmt.Errorf("type-id must be a positive integer, got %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			info, err := a.books.ItemInfo(ctx, typeID)
			if err != nil {
				return err
			}

			fmt.Printf("Type ID: %d\nName:    %s\nVolume:  %.2f m³\n",
				info.TypeID, info.Name, info.VolumeM3)
			if info.Placeholder {
				fmt.Println("(metadata unavailable upstream, showing placeholder values)")
			}

			if region == "" {
				return nil
			}

			regionID, ok := a.cfg.RegionMap()[region]
			if !ok {
				return fmt.Errorf("unknown region %q", region)
			}

			ttl := time.Duration(a.cfg.Scan.CacheTTLMinutes) * time.Minute
			bestSell, bestBuy, err := a.books.BestPrices(ctx, regionID, typeID, ttl)
			if err != nil {
				return err
			}

			fmt.Printf("\nBest prices in %s:\n", region)
			if bestSell > 0 {
				fmt.Printf("  Lowest sell:  %.2f ISK\n", bestSell)
			} else {
				fmt.Println("  Lowest sell:  no sell orders")
			}
			if bestBuy > 0 {
				fmt.Printf("  Highest buy:  %.2f ISK\n", bestBuy)
			} else {
				fmt.Println("  Highest buy:  no buy orders")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "Also show best prices in this region")

	return cmd
}
