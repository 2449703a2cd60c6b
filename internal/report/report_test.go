package report

import (
	"bytes"
	"testing"

	"pricecompare/internal"
	"pricecompare/internal/dashboard"

	"github.com/stretchr/testify/assert"
)

func runCSV(content string) *dashboard.View {
	p := dashboard.New(dashboard.Config{}, internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError))
	return p.Run(dashboard.RunInput{Filename: "prices.csv", Content: []byte(content)})
}

func TestMarkdownFullRun(t *testing.T) {
	md := Markdown(runCSV("产品名,数量,X,Y\nA,10,100,90\nB,5,200,210\n"))

	assert.Contains(t, md, "Source file: `prices.csv`")
	assert.Contains(t, md, "2 products, 2 dealers: X, Y")
	assert.Contains(t, md, "| 产品名 | 数量 | X | Y |")
	assert.Contains(t, md, "## Difference: X - Y")
	assert.Contains(t, md, "| A | 100 | 90 | +10 | 10 | +100 |")
	assert.Contains(t, md, "| B | 200 | 210 | -10 | 5 | -50 |")
	assert.Contains(t, md, "**Total difference across all products: 50**")
	assert.NotContains(t, md, "left out of the total")
}

func TestMarkdownMissingValues(t *testing.T) {
	md := Markdown(runCSV("产品名,数量,X,Y\nA,10,,90\nB,5,200,210\n"))

	assert.Contains(t, md, "| A | n/a | 90 | n/a | 10 | n/a |")
	assert.Contains(t, md, "1 product(s) had a missing price or quantity")
}

func TestMarkdownRoundsTotalsWithoutNegativeZero(t *testing.T) {
	md := Markdown(runCSV("产品名,数量,X,Y\nA,1,10,10.25\nB,1,5,5\n"))

	assert.Contains(t, md, "| A | 10 | 10.25 | -0.25 | 1 | +0 |")
	assert.NotContains(t, md, "-0 |")
	assert.Contains(t, md, "**Total difference across all products: 0**")
}

func TestMarkdownRejectedUpload(t *testing.T) {
	md := Markdown(runCSV("产品名,X,Y\nA,1,2\n"))

	assert.Contains(t, md, "**Error:**")
	assert.NotContains(t, md, "## Prices")
}

func TestMarkdownIdle(t *testing.T) {
	md := Markdown(&dashboard.View{Stage: dashboard.StageIdle})

	assert.Contains(t, md, "No spreadsheet uploaded.")
}

func TestHTMLRendersTables(t *testing.T) {
	out := string(HTML(runCSV("产品名,数量,X,Y\nA,10,100,90\nB,5,200,210\n")))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td")
	assert.Contains(t, out, "+100")
	assert.Contains(t, out, "<strong>Total difference across all products: 50</strong>")
}

func TestEscapeTableCells(t *testing.T) {
	assert.Equal(t, `a\|b`, escape("a|b"))
	assert.Equal(t, `snake\_case`, escape("snake_case"))
}
