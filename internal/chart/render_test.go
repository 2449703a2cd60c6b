package chart

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"testing"

	"pricecompare/domain/pricing"
	"pricecompare/internal/comparison"
	"pricecompare/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStaticPNG(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(BuildStatic(threeDealerTable()), FormatPNG, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderDynamicSVG(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(BuildDynamic(scenarioResults()), FormatSVG, &buf))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "A: +100")
}

func TestNewRendererMissingFont(t *testing.T) {
	_, err := NewRenderer("/nonexistent/font.ttf")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestRenderGeneratedSheet(t *testing.T) {
	config := testkit.DefaultPriceSheetConfig()
	config.ProductCount = 40
	config.DealerCount = 6
	data, err := testkit.NewPriceSheetGenerator(config).Generate().CSV()
	require.NoError(t, err)

	table, err := comparison.NewLoader(comparison.DefaultLoaderConfig()).Load("generated.csv", data)
	require.NoError(t, err)

	spec := BuildStatic(table)
	assert.Equal(t, 2400, spec.Width)

	r, err := NewRenderer("")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(spec, FormatPNG, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

var (
	svgPath  = regexp.MustCompile(`(?s)<path[^>]*?d="([^"]*)"[^>]*?style="([^"]*)"`)
	svgPoint = regexp.MustCompile(`[ML] (-?\d+) (-?\d+)`)
)

type rect struct{ left, right, top, bottom int }

// svgRects returns the bounding boxes of every path filled with fill,
// ordered left to right.
func svgRects(t *testing.T, svg, fill string) []rect {
	t.Helper()
	var out []rect
	for _, m := range svgPath.FindAllStringSubmatch(svg, -1) {
		if !regexp.MustCompile(`fill:` + regexp.QuoteMeta(fill) + `(;|$)`).MatchString(m[2]) {
			continue
		}
		r := rect{left: 1 << 30, top: 1 << 30, right: -1 << 30, bottom: -1 << 30}
		for _, p := range svgPoint.FindAllStringSubmatch(m[1], -1) {
			x, _ := strconv.Atoi(p[1])
			y, _ := strconv.Atoi(p[2])
			r.left, r.right = min(r.left, x), max(r.right, x)
			r.top, r.bottom = min(r.top, y), max(r.bottom, y)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].left < out[j].left })
	return out
}

func renderSVG(t *testing.T, spec Spec) string {
	t.Helper()
	r, err := NewRenderer("")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(spec, FormatSVG, &buf))
	return buf.String()
}

func assertInside(t *testing.T, spec Spec, rects []rect) {
	t.Helper()
	for _, r := range rects {
		assert.GreaterOrEqual(t, r.left, 0, "bar %+v", r)
		assert.LessOrEqual(t, r.right, spec.Width, "bar %+v", r)
		assert.GreaterOrEqual(t, r.top, 0, "bar %+v", r)
		assert.LessOrEqual(t, r.bottom, spec.Height, "bar %+v", r)
	}
}

const (
	fillDealerX = "rgba(31,119,180,0.9)"
	fillDealerY = "rgba(255,127,14,0.9)"
	fillRed     = "rgba(231,76,60,0.9)"
	fillGreen   = "rgba(46,204,113,0.9)"
)

func twoDealerTable(names ...string) *pricing.Table {
	table := &pricing.Table{
		Columns: []string{"产品名", "数量", "X", "Y"},
		Dealers: []string{"X", "Y"},
	}
	for i, name := range names {
		table.Rows = append(table.Rows, pricing.ProductRow{
			Name:     name,
			Quantity: 1,
			Prices:   map[string]float64{"X": float64(100 * (i + 1)), "Y": float64(100*(i+1) - 10)},
		})
	}
	return table
}

func TestXRange(t *testing.T) {
	lo, hi := XRange(1)
	assert.InDelta(t, -0.6, lo, 1e-12)
	assert.InDelta(t, 0.6, hi, 1e-12)

	lo, hi = XRange(3)
	assert.InDelta(t, -0.6, lo, 1e-12)
	assert.InDelta(t, 2.6, hi, 1e-12)
}

func TestRenderSingleProduct(t *testing.T) {
	table := twoDealerTable("A")
	results, err := comparison.NewEngine(0).Compute(table, []string{"X", "Y"}, nil)
	require.NoError(t, err)

	r, err := NewRenderer("")
	require.NoError(t, err)
	for _, spec := range []Spec{BuildStatic(table), BuildDynamic(results)} {
		for _, format := range []Format{FormatPNG, FormatSVG} {
			var buf bytes.Buffer
			require.NoError(t, r.Render(spec, format, &buf), "%s %s", spec.Kind, format)
			assert.Positive(t, buf.Len())
		}
	}

	spec := BuildStatic(table)
	svg := renderSVG(t, spec)
	x, y := svgRects(t, svg, fillDealerX), svgRects(t, svg, fillDealerY)
	require.Len(t, x, 1)
	require.Len(t, y, 1)
	assertInside(t, spec, append(x, y...))
	assert.Less(t, x[0].left, y[0].left)
}

func TestRenderStaticBarGeometry(t *testing.T) {
	spec := BuildStatic(twoDealerTable("A", "B"))
	svg := renderSVG(t, spec)

	x, y := svgRects(t, svg, fillDealerX), svgRects(t, svg, fillDealerY)
	require.Len(t, x, 2)
	require.Len(t, y, 2)
	assertInside(t, spec, append(append([]rect{}, x...), y...))

	// X then Y inside each group, a gap between the groups
	aX, aY, bX, bY := x[0], y[0], x[1], y[1]
	assert.InDelta(t, aX.right, aY.left, 2)
	assert.InDelta(t, bX.right, bY.left, 2)
	assert.Greater(t, bX.left, aY.right+10)

	width := aX.right - aX.left
	for _, r := range []rect{aY, bX, bY} {
		assert.InDelta(t, width, r.right-r.left, 2)
	}
	assert.Less(t, width, spec.Width/4)

	// the outer groups keep a margin to the plot edges
	assert.Greater(t, aX.left, 20)
	assert.Greater(t, spec.Width-bY.right, 20)
}

func TestRenderDynamicBarGeometry(t *testing.T) {
	spec := BuildDynamic(scenarioResults())
	svg := renderSVG(t, spec)

	red, green := svgRects(t, svg, fillRed), svgRects(t, svg, fillGreen)
	bars := append(append([]rect{}, red...), green...)
	require.Len(t, bars, 3)
	assertInside(t, spec, bars)

	// A (+100) is taller than B (|-50|)
	require.NotEmpty(t, red)
	require.Len(t, green, 1)
	assert.Greater(t, red[0].bottom-red[0].top, green[0].bottom-green[0].top)
	assert.Less(t, red[0].left, green[0].left)
}
