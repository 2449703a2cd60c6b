package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pricecompare/adapters/excel"
	"pricecompare/domain/pricing"
	"pricecompare/internal"
	"pricecompare/internal/chart"
	"pricecompare/internal/dashboard"
	"pricecompare/internal/report"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	dealers    []string
	quantities []string
	staticOut  string
	dynamicOut string
	reportOut  string
	exportOut  string
	fontPath   string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Compute the price difference between two dealers",
		Long: `Load a price sheet, compare two dealers and print a markdown report.

Without --dealer the first two dealer columns are compared.

Example: pricediff analyze prices.xlsx --dealer "Dealer A" --dealer "Dealer B" --qty "Widget=20" --dynamic diff.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.dealers, "dealer", nil, "Dealer to compare, given twice: first minus second")
	cmd.Flags().StringArrayVar(&opts.quantities, "qty", nil, "Quantity override as product=n (repeatable)")
	cmd.Flags().StringVar(&opts.staticOut, "static", "", "Write the all-dealer price chart (.png or .svg)")
	cmd.Flags().StringVar(&opts.dynamicOut, "dynamic", "", "Write the total difference chart (.png or .svg)")
	cmd.Flags().StringVar(&opts.reportOut, "report", "", "Write the markdown report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.exportOut, "export", "", "Write the table with differences as .xlsx")
	cmd.Flags().StringVar(&opts.fontPath, "font", os.Getenv("CHART_FONT_PATH"), "TrueType font for chart labels")

	return cmd
}

func newDealersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dealers [file]",
		Short: "List the dealer columns of a price sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadView(cmd, args[0], dashboard.RunInput{})
			if err != nil {
				return err
			}
			for _, dealer := range view.Table.Dealers {
				fmt.Fprintln(cmd.OutOrStdout(), dealer)
			}
			return nil
		},
	}
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	quantities, err := parseQuantities(opts.quantities)
	if err != nil {
		return err
	}

	view, err := loadView(cmd, path, dashboard.RunInput{
		Dealers:    opts.dealers,
		DealersSet: len(opts.dealers) > 0,
		Quantities: quantities,
	})
	if err != nil {
		return err
	}
	if view.Warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", view.Warning)
	}

	if opts.staticOut != "" || opts.dynamicOut != "" {
		renderer, err := chart.NewRenderer(opts.fontPath)
		if err != nil {
			return err
		}
		if err := writeChart(renderer, view.StaticChart, opts.staticOut); err != nil {
			return err
		}
		if opts.dynamicOut != "" && view.DynamicChart == nil {
			return fmt.Errorf("no dynamic chart: %s", view.Warning)
		}
		if err := writeChart(renderer, view.DynamicChart, opts.dynamicOut); err != nil {
			return err
		}
	}

	if opts.exportOut != "" {
		data, err := excel.ExportResults(view.Table, view.Results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.exportOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	}

	md := report.Markdown(view)
	if opts.reportOut != "" {
		return os.WriteFile(opts.reportOut, []byte(md), 0o644)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), md)
	return err
}

// loadView reads path and runs the pipeline. A rejected table is an error.
func loadView(cmd *cobra.Command, path string, in dashboard.RunInput) (*dashboard.View, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	in.Filename = filepath.Base(path)
	in.Content = content

	logger := internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(envOr("LOG_LEVEL", "WARN")))
	pipeline := dashboard.New(pipelineConfig(cmd), logger)

	view := pipeline.Run(in)
	if view.Stage == dashboard.StageRejected || view.Table == nil {
		if view.Error != "" {
			return nil, fmt.Errorf("%s", view.Error)
		}
		return nil, fmt.Errorf("%s is empty", path)
	}
	return view, nil
}

func pipelineConfig(cmd *cobra.Command) dashboard.Config {
	cfg := dashboard.Config{
		ProductColumn:  envOr("PRODUCT_COLUMN", pricing.DefaultProductColumn),
		QuantityColumn: envOr("QUANTITY_COLUMN", pricing.DefaultQuantityColumn),
	}
	if f := cmd.Flag("product-column"); f != nil && f.Value.String() != "" {
		cfg.ProductColumn = f.Value.String()
	}
	if f := cmd.Flag("quantity-column"); f != nil && f.Value.String() != "" {
		cfg.QuantityColumn = f.Value.String()
	}
	if v, err := strconv.Atoi(os.Getenv("QUANTITY_MAX")); err == nil {
		cfg.QuantityMax = v
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_ROWS")); err == nil {
		cfg.MaxRows = v
	}
	return cfg
}

func writeChart(renderer *chart.Renderer, spec *chart.Spec, path string) error {
	if path == "" || spec == nil {
		return nil
	}
	format := chart.FormatPNG
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		f, err := chart.ParseFormat(ext)
		if err != nil {
			return err
		}
		format = f
	}

	var buf bytes.Buffer
	if err := renderer.Render(*spec, format, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// parseQuantities reads product=n pairs. The last '=' separates the value so
// product names may contain '='.
func parseQuantities(pairs []string) (pricing.Quantities, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(pricing.Quantities, len(pairs))
	for _, pair := range pairs {
		i := strings.LastIndex(pair, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --qty %q, expected product=n", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(pair[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("invalid --qty %q: %w", pair, err)
		}
		out[strings.TrimSpace(pair[:i])] = n
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
