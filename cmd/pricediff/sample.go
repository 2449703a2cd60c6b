package main

import (
	"fmt"
	"os"

	"pricecompare/adapters/excel"
	"pricecompare/internal/testkit"

	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultPriceSheetConfig()

	cmd := &cobra.Command{
		Use:   "sample [out]",
		Short: "Write a generated price sheet (.xlsx or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg := pipelineConfig(cmd)
			config.ProductColumn = cfg.ProductColumn
			config.QuantityColumn = cfg.QuantityColumn
			if config.DealerCount < 2 {
				return fmt.Errorf("--dealers must be at least 2, got %d", config.DealerCount)
			}

			sheet := testkit.NewPriceSheetGenerator(config).Generate()
			var data []byte
			var err error
			switch excel.FileType(path) {
			case "xlsx":
				data, err = sheet.XLSX()
			case "csv":
				data, err = sheet.CSV()
			default:
				return fmt.Errorf("unsupported output %q, use .xlsx or .csv", path)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write sample: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products x %d dealers to %s\n", len(sheet.Rows), len(sheet.Dealers), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&config.ProductCount, "products", config.ProductCount, "Number of products")
	cmd.Flags().IntVar(&config.DealerCount, "dealers", config.DealerCount, "Number of dealer columns")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")
	cmd.Flags().Float64Var(&config.MissingRate, "missing", config.MissingRate, "Share of blank cells")

	return cmd
}
