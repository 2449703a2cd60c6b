// Package report summarises a dashboard run as markdown and HTML.
package report

import (
	"fmt"
	"math"
	"strings"

	"pricecompare/domain/pricing"
	"pricecompare/internal/chart"
	"pricecompare/internal/dashboard"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the view as a markdown document
func Markdown(view *dashboard.View) string {
	var b strings.Builder

	b.WriteString("# Dealer price comparison\n\n")
	if view.Filename != "" {
		fmt.Fprintf(&b, "Source file: `%s`\n\n", view.Filename)
	}

	if view.Error != "" {
		fmt.Fprintf(&b, "**Error:** %s\n", escape(view.Error))
		return b.String()
	}
	if view.Table == nil {
		b.WriteString("No spreadsheet uploaded.\n")
		return b.String()
	}

	table := view.Table
	fmt.Fprintf(&b, "%d products, %d dealers: %s\n\n", len(table.Rows), len(table.Dealers), escape(strings.Join(table.Dealers, ", ")))

	b.WriteString("## Prices\n\n")
	writeRow(&b, table.Columns)
	writeDivider(&b, len(table.Columns))
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		copy(cells, row.Raw)
		writeRow(&b, cells)
	}
	b.WriteString("\n")

	if view.Warning != "" {
		fmt.Fprintf(&b, "**Warning:** %s\n", escape(view.Warning))
		return b.String()
	}
	if view.Results == nil {
		return b.String()
	}

	results := view.Results
	sel := results.Selection
	fmt.Fprintf(&b, "## Difference: %s - %s\n\n", escape(sel.A), escape(sel.B))
	writeRow(&b, []string{"Product", sel.A, sel.B, "Difference", "Quantity", "Total"})
	writeDivider(&b, 6)
	for _, row := range results.Rows {
		writeRow(&b, []string{
			row.Product,
			number(row.PriceA, "%g"),
			number(row.PriceB, "%g"),
			number(row.Difference, "%+g"),
			number(row.Quantity, "%.0f"),
			chart.FormatSigned(row.Total, true),
		})
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "**%s**\n", view.TotalLine)
	if results.MissingRows > 0 {
		fmt.Fprintf(&b, "\n%d product(s) had a missing price or quantity and were left out of the total.\n", results.MissingRows)
	}
	return b.String()
}

// HTML renders the markdown report to an HTML fragment
func HTML(view *dashboard.View) []byte {
	return ToHTML(Markdown(view))
}

// ToHTML converts markdown text with table support to HTML. Raw HTML in
// cell text is dropped.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escape(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeDivider(b *strings.Builder, n int) {
	b.WriteString("|")
	for i := 0; i < n; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

func number(v float64, format string) string {
	if pricing.IsMissing(v) {
		return "n/a"
	}
	if v == 0 {
		v = math.Abs(v)
	}
	return fmt.Sprintf(format, v)
}

var escaper = strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`", "\n", " ")

func escape(s string) string {
	return escaper.Replace(s)
}
