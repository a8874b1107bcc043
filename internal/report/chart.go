package report

import (
	"fmt"
	"math"
	"strings"

	"gdreport/internal/survey"
)

// Chart geometry in SVG user units.
const (
	chartWidth   = 720
	chartHeight  = 360
	chartLeft    = 48
	chartRight   = 16
	chartTop     = 16
	chartBottom  = 56
	markerRadius = 4
	maxTicks     = 8
)

// axisLimit bounds the y axis so its span stays finite.
const axisLimit = math.MaxFloat64 / 4

var seriesColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

// Chart is a line chart of a summary: one series per metric, one x position
// per group. Coordinates are precomputed so templates only draw.
type Chart struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	PlotX0  float64     `json:"plot_x0"`
	PlotX1  float64     `json:"plot_x1"`
	PlotY0  float64     `json:"plot_y0"`
	PlotY1  float64     `json:"plot_y1"`
	XLabels []AxisLabel `json:"x_labels"`
	YTicks  []AxisLabel `json:"y_ticks"`
	Series  []Series    `json:"series"`
}

// AxisLabel is a tick position with its text.
type AxisLabel struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Series is one metric line. A group without a mean breaks the line, so the
// line is drawn as Segments of SVG polyline points.
type Series struct {
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Segments []string `json:"segments"`
	Markers  []Marker `json:"markers"`
	Radius   int      `json:"radius"`
}

// Marker is a single plotted value.
type Marker struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group"`
	Value string  `json:"value"`
}

// NewChart lays out a summary. labels name the series; missing labels fall
// back to the metric column name.
func NewChart(summary *survey.SummaryTable, labels []string) *Chart {
	c := &Chart{
		Width:  chartWidth,
		Height: chartHeight,
		PlotX0: chartLeft,
		PlotX1: chartWidth - chartRight,
		PlotY0: chartTop,
		PlotY1: chartHeight - chartBottom,
	}

	lo, hi := valueRange(summary)
	n := len(summary.Rows)

	xAt := func(i int) float64 {
		if n == 1 {
			return round2((c.PlotX0 + c.PlotX1) / 2)
		}
		return round2(c.PlotX0 + float64(i)*(c.PlotX1-c.PlotX0)/float64(n-1))
	}
	yAt := func(v float64) float64 {
		v = math.Max(lo, math.Min(hi, v))
		return round2(c.PlotY1 - (v-lo)/(hi-lo)*(c.PlotY1-c.PlotY0))
	}

	for i, row := range summary.Rows {
		c.XLabels = append(c.XLabels, AxisLabel{X: xAt(i), Y: c.PlotY1 + 20, Text: row.Group})
	}
	for _, v := range ticks(lo, hi) {
		c.YTicks = append(c.YTicks, AxisLabel{X: c.PlotX0 - 8, Y: yAt(v), Text: fmt.Sprintf("%g", v)})
	}

	for m, col := range summary.MetricColumns {
		s := Series{
			Label:  labelOr(labels, m, col),
			Color:  seriesColors[m%len(seriesColors)],
			Radius: markerRadius,
		}
		var points []string
		for i, row := range summary.Rows {
			mean := row.Means[m]
			if !mean.Valid() {
				if len(points) > 0 {
					s.Segments = append(s.Segments, strings.Join(points, " "))
					points = nil
				}
				continue
			}
			x, y := xAt(i), yAt(mean.Value)
			points = append(points, fmt.Sprintf("%g,%g", x, y))
			s.Markers = append(s.Markers, Marker{X: x, Y: y, Group: row.Group, Value: formatMean(mean)})
		}
		if len(points) > 0 {
			s.Segments = append(s.Segments, strings.Join(points, " "))
		}
		c.Series = append(c.Series, s)
	}
	return c
}

// valueRange returns whole-number bounds that cover the 1-5 scale and every
// finite mean in the summary, capped at ±axisLimit.
func valueRange(summary *survey.SummaryTable) (float64, float64) {
	lo, hi := 1.0, 5.0
	for _, row := range summary.Rows {
		for _, m := range row.Means {
			if !m.Valid() || math.IsInf(m.Value, 0) || math.IsNaN(m.Value) {
				continue
			}
			lo = math.Min(lo, math.Floor(m.Value))
			hi = math.Max(hi, math.Ceil(m.Value))
		}
	}
	return math.Max(lo, -axisLimit), math.Min(hi, axisLimit)
}

// ticks returns at most maxTicks+1 evenly spaced values inside [lo, hi].
// The step is a whole number of the form 1, 2 or 5 times a power of ten.
func ticks(lo, hi float64) []float64 {
	step := niceStep((hi - lo) / maxTicks)
	first := math.Ceil(lo/step) * step
	n := int(math.Floor((hi-first)/step+1e-9)) + 1
	n = max(0, min(n, maxTicks+1))

	out := make([]float64, n)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	return out
}

func niceStep(raw float64) float64 {
	if raw <= 1 {
		return 1
	}
	pow := math.Pow10(int(math.Floor(math.Log10(raw))))
	switch f := raw / pow; {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func labelOr(labels []string, i int, fallback string) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fallback
}

func formatMean(m survey.Mean) string {
	if !m.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", m.Value)
}
