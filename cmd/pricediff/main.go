package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pricediff",
		Short:         "Compare dealer prices from a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("product-column", "", "Product name column (default from PRODUCT_COLUMN or 产品名)")
	rootCmd.PersistentFlags().String("quantity-column", "", "Quantity column (default from QUANTITY_COLUMN or 数量)")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newDealersCmd(),
		newSampleCmd(),
	)
	return rootCmd
}
