package chart

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

const annotationWidth = 220

// Renderer draws Specs with go-chart. A nil font uses go-chart's default.
type Renderer struct {
	font *truetype.Font
}

// NewRenderer creates a renderer, loading a TrueType font when fontPath is set
// so that product names outside Latin script render.
func NewRenderer(fontPath string) (*Renderer, error) {
	if fontPath == "" {
		return &Renderer{}, nil
	}
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart font: %w", err)
	}
	font, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart font %s: %w", fontPath, err)
	}
	return &Renderer{font: font}, nil
}

// Render writes spec to w in the requested format
func (r *Renderer) Render(spec Spec, format Format, w io.Writer) error {
	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}

	c := r.build(spec)
	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", spec.Kind, err)
	}
	return nil
}

func (r *Renderer) build(spec Spec) gochart.Chart {
	lo, hi := spec.ValueRange()
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05

	xmin, xmax := XRange(len(spec.Categories))
	ticks := xTicks(spec.Categories, xmin, xmax)

	right := 20
	if len(spec.Annotation) > 0 {
		right = annotationWidth
	}

	c := gochart.Chart{
		Title:      spec.Title,
		TitleStyle: gochart.Style{FontSize: 14},
		Width:      spec.Width,
		Height:     spec.Height,
		Font:       r.font,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: right, Bottom: 20}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: xmin, Max: xmax},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YLabel,
			Range: &gochart.ContinuousRange{Min: lo - pad*boolFloat(lo < 0), Max: hi + pad},
			GridMajorStyle: gochart.Style{
				StrokeColor:     drawing.ColorFromHex("cccccc"),
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		},
	}

	if len(spec.Series) > 0 {
		for j, s := range spec.Series {
			c.Series = append(c.Series, barSeries{
				name:  s.Name,
				style: gochart.Style{StrokeColor: hexColor(s.Color), FillColor: hexColor(s.Color), StrokeWidth: 4},
				bars:  barsOf(spec.Bars, j),
			})
		}
		c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	} else {
		c.Series = []gochart.Series{barSeries{
			name:  spec.YLabel,
			style: gochart.Style{StrokeColor: drawing.ColorBlack},
			bars:  spec.Bars,
		}}
	}

	if len(spec.Annotation) > 0 {
		c.Elements = append(c.Elements, annotationBox(spec.Annotation))
	}
	return c
}

// XRange returns the x extent for n product groups: half a group plus a
// margin on either side of the first and last category.
func XRange(n int) (float64, float64) {
	margin := groupWidth/2 + 0.2
	return -margin, float64(n-1) + margin
}

// xTicks labels every category and pins the axis ends with blank ticks.
// go-chart takes the x range from the tick extremes whenever ticks are set.
func xTicks(categories []string, xmin, xmax float64) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(categories)+2)
	ticks = append(ticks, gochart.Tick{Value: xmin})
	for i, name := range categories {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: name})
	}
	return append(ticks, gochart.Tick{Value: xmax})
}

func barsOf(bars []Bar, series int) []Bar {
	var out []Bar
	for _, b := range bars {
		if b.Series == series {
			out = append(out, b)
		}
	}
	return out
}

// barSeries draws filled rectangles from zero to each bar's height
type barSeries struct {
	name  string
	style gochart.Style
	bars  []Bar
}

func (bs barSeries) GetName() string { return bs.name }
func (bs barSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (bs barSeries) GetStyle() gochart.Style { return bs.style }
func (bs barSeries) Validate() error { return nil }
func (bs barSeries) Len() int { return len(bs.bars) }
func (bs barSeries) GetValues(i int) (float64, float64) { return bs.bars[i].X, bs.bars[i].Height }

func (bs barSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	zero := canvasBox.Bottom - yrange.Translate(0)
	for _, b := range bs.bars {
		left := canvasBox.Left + xrange.Translate(b.X-b.Width/2)
		right := canvasBox.Left + xrange.Translate(b.X+b.Width/2)
		top := canvasBox.Bottom - yrange.Translate(b.Height)
		bottom := zero
		if top > bottom {
			top, bottom = bottom, top
		}
		gochart.Draw.Box(r, gochart.Box{Top: top, Left: left, Right: right, Bottom: bottom}, gochart.Style{
			FillColor:   hexColor(b.Color).WithAlpha(220),
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 1,
		})
	}
}

// annotationBox lists lines to the right of the plot area
func annotationBox(lines []string) gochart.Renderable {
	return func(r gochart.Renderer, canvasBox gochart.Box, defaults gochart.Style) {
		style := gochart.Style{
			Font:      defaults.Font,
			FontSize:  10,
			FontColor: drawing.ColorBlack,
		}
		style.WriteTextOptionsToRenderer(r)

		lineHeight, textWidth := 0, 0
		for _, line := range lines {
			box := r.MeasureText(line)
			if box.Height() > lineHeight {
				lineHeight = box.Height()
			}
			if box.Width() > textWidth {
				textWidth = box.Width()
			}
		}
		lineHeight += 4

		left := canvasBox.Right + 12
		top := canvasBox.Top
		frame := gochart.Box{
			Top:    top,
			Left:   left,
			Right:  left + textWidth + 12,
			Bottom: top + lineHeight*len(lines) + 8,
		}
		gochart.Draw.Box(r, frame, gochart.Style{
			FillColor:   drawing.ColorWhite.WithAlpha(180),
			StrokeColor: drawing.ColorFromHex("808080"),
			StrokeWidth: 1,
		})
		for i, line := range lines {
			gochart.Draw.Text(r, line, left+6, top+4+lineHeight*(i+1)-4, style)
		}
	}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
