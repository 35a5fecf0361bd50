package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukahq/go-duka/cart"
)

var (
	addName  string
	addPrice int64
	addSize  string
	addQty   int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cartListCmd.RunE(cmd, args)
	},
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the local cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := basket.Lines()
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("Your cart is empty")
			return nil
		}
		for _, l := range lines {
			fmt.Printf("#%-6d %-30s size %-4s x%-3d %8d KSH\n", l.ProductID, l.Name, l.SelectedSize, l.Quantity, l.Subtotal())
		}
		fmt.Printf("%d items, total %d KSH\n", cart.Count(lines), cart.Total(lines))
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the local cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var productID int64
		if _, err := fmt.Sscanf(args[0], "%d", &productID); err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		line := cart.Line{
			ProductID:    productID,
			Name:         addName,
			UnitPrice:    addPrice,
			SelectedSize: addSize,
			Quantity:     addQty,
		}
		if err := basket.Add(line); err != nil {
			return err
		}
		total, err := basket.Total()
		if err != nil {
			return err
		}
		fmt.Printf("Added %s, cart total %d KSH\n", addName, total)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a line from the local cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var productID int64
		if _, err := fmt.Sscanf(args[0], "%d", &productID); err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return basket.Remove(productID, addSize)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the local cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return basket.Clear()
	},
}

func init() {
	cartAddCmd.Flags().StringVar(&addName, "name", "", "product name")
	cartAddCmd.Flags().Int64Var(&addPrice, "price", 0, "unit price in KSH")
	cartAddCmd.Flags().StringVar(&addSize, "size", "M", "selected size")
	cartAddCmd.Flags().IntVar(&addQty, "qty", 1, "quantity")
	_ = cartAddCmd.MarkFlagRequired("name")
	_ = cartAddCmd.MarkFlagRequired("price")

	cartRemoveCmd.Flags().StringVar(&addSize, "size", "M", "selected size")

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
