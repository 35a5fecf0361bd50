package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := client.Catalog().Categories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%-20s %s\n", c.Slug, c.Name)
		}
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:   "products <category-slug>",
	Short: "List products in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prods, err := client.Catalog().ProductsByCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, p := range prods {
			sizes := strings.Join(p.Sizes, ",")
			fmt.Printf("#%-6d %-30s %8d KSH  sizes: %s\n", p.ID, p.Name, p.Price, sizes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, productsCmd)
}
