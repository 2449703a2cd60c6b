package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pricecompare/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = "产品名,数量,X,Y\nA,10,100,90\nB,5,200,210\n"

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PRODUCT_COLUMN", "")
	t.Setenv("QUANTITY_COLUMN", "")
	t.Setenv("QUANTITY_MAX", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzePrintsReport(t *testing.T) {
	out, _, err := execute(t, "analyze", writeSheet(t, scenarioCSV))

	require.NoError(t, err)
	assert.Contains(t, out, "## Difference: X - Y")
	assert.Contains(t, out, "Total difference across all products: 50")
}

func TestAnalyzeWithDealersAndQuantities(t *testing.T) {
	out, _, err := execute(t, "analyze", writeSheet(t, scenarioCSV),
		"--dealer", "Y", "--dealer", "X", "--qty", "A=1", "--qty", "B=0")

	require.NoError(t, err)
	assert.Contains(t, out, "Total difference across all products: -10")
}

func TestAnalyzeWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	static := filepath.Join(dir, "static.png")
	dynamic := filepath.Join(dir, "dynamic.svg")
	export := filepath.Join(dir, "out.xlsx")
	reportPath := filepath.Join(dir, "report.md")

	out, _, err := execute(t, "analyze", writeSheet(t, scenarioCSV),
		"--static", static, "--dynamic", dynamic, "--export", export, "--report", reportPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	png, err := os.ReadFile(static)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))

	svg, err := os.ReadFile(dynamic)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	md, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "Total difference across all products: 50")

	info, err := os.Stat(export)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnalyzeSelectionWarning(t *testing.T) {
	out, errOut, err := execute(t, "analyze", writeSheet(t, scenarioCSV), "--dealer", "X")

	require.NoError(t, err)
	assert.Contains(t, errOut, "warning: Please select exactly two dealers")
	assert.NotContains(t, out, "## Difference")
}

func TestAnalyzeRejectedTable(t *testing.T) {
	_, _, err := execute(t, "analyze", writeSheet(t, "产品名,X,Y\nA,1,2\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain")
}

func TestAnalyzeCustomColumns(t *testing.T) {
	out, _, err := execute(t, "--product-column", "Product", "--quantity-column", "Qty",
		"analyze", writeSheet(t, "Product,Qty,X,Y\nA,10,100,90\n"))

	require.NoError(t, err)
	assert.Contains(t, out, "Total difference across all products: 100")
}

func TestAnalyzeHonoursMaxRows(t *testing.T) {
	t.Setenv("MAX_ROWS", "1")
	out, _, err := execute(t, "analyze", writeSheet(t, scenarioCSV))

	require.NoError(t, err)
	assert.Contains(t, out, "1 products, 2 dealers")
	assert.Contains(t, out, "Total difference across all products: 100")
	assert.NotContains(t, out, "| B |")
}

func TestDealersCommand(t *testing.T) {
	out, _, err := execute(t, "dealers", writeSheet(t, scenarioCSV))

	require.NoError(t, err)
	assert.Equal(t, "X\nY\n", out)
}

func TestParseQuantities(t *testing.T) {
	q, err := parseQuantities([]string{"A=3", "x=y=4", " B = 5 "})
	require.NoError(t, err)
	assert.Equal(t, pricing.Quantities{"A": 3, "x=y": 4, "B": 5}, q)

	_, err = parseQuantities([]string{"A"})
	assert.Error(t, err)
	_, err = parseQuantities([]string{"=3"})
	assert.Error(t, err)
	_, err = parseQuantities([]string{"A=three"})
	assert.Error(t, err)

	q, err = parseQuantities(nil)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestSampleRoundTrip(t *testing.T) {
	for _, name := range []string{"sample.xlsx", "sample.csv"} {
		path := filepath.Join(t.TempDir(), name)
		out, _, err := execute(t, "sample", path, "--products", "8", "--dealers", "3", "--seed", "9")
		require.NoError(t, err)
		assert.Contains(t, out, "wrote 8 products x 3 dealers")

		out, _, err = execute(t, "dealers", path)
		require.NoError(t, err)
		assert.Equal(t, "Dealer A\nDealer B\nDealer C\n", out)
	}
}

func TestSampleRejects(t *testing.T) {
	_, _, err := execute(t, "sample", filepath.Join(t.TempDir(), "out.xls"))
	assert.Error(t, err)

	_, _, err = execute(t, "sample", filepath.Join(t.TempDir(), "out.csv"), "--dealers", "1")
	assert.Error(t, err)
}
