package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// NewInventoryCommand creates the inventory command with subcommands.
func NewInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Track stock bought for resale",
	}

	cmd.AddCommand(newInventoryAddCommand())
	cmd.AddCommand(newInventoryListCommand())
	cmd.AddCommand(newInventorySetQuantityCommand())
	cmd.AddCommand(newInventoryRemoveCommand())

	return cmd
}

func newInventoryAddCommand() *cobra.Command {
	var typeID int
	var name string
	var quantity int
	var cost float64
	var station string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stock entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := trading.NewInventoryEntry(typeID, name, quantity, cost, station)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.inventory.Add(context.Background(), entry)
			if err != nil {
				return err
			}

			fmt.Printf("Added inventory entry #%d: %d × %s\n", id, quantity, name)
			return nil
		},
	}

	cmd.Flags().IntVar(&typeID, "type-id", 0, "Item type ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Item name (required)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Quantity held (required)")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost basis per unit in ISK")
	cmd.Flags().StringVar(&station, "station", "", "Station where the stock is held")
	_ = cmd.MarkFlagRequired("type-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newInventoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stock entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.inventory.List(context.Background())
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("Inventory is empty.")
				return nil
			}

			fmt.Printf("%-5s %-30s %10s %14s %s\n", "ID", "Item", "Qty", "Cost/Unit", "Station")
			for _, e := range entries {
				fmt.Printf("%-5d %-30s %10d %14.2f %s\n",
					e.ID, truncate(e.ItemName, 30), e.Quantity, e.CostBasisISK, e.Station)
			}
			return nil
		},
	}
}

func newInventorySetQuantityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <id> <quantity>",
		Short: "Update the quantity of a stock entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be an integer, got %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity < 0 {
				return fmt.Errorf("quantity must be a non-negative integer, got %q", args[1])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.inventory.UpdateQuantity(context.Background(), id, quantity); err != nil {
				return err
			}
			fmt.Printf("Entry #%d set to %d units.\n", id, quantity)
			return nil
		},
	}
}

func newInventoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a stock entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be an integer, got %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.inventory.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Entry #%d removed.\n", id)
			return nil
		},
	}
}
