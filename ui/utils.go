package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"proteoportal/adapters/datareadiness/coercer"
	"proteoportal/domain/dataset"
	"proteoportal/internal/visualization"
)

// emptyCell is shown for blank values
const emptyCell = "—"

// display parses cells the way a results table reads them: plain numerals only
var display = coercer.NewTypeCoercer(coercer.StrictCoercionConfig())

// FormatCell renders a table cell for display. Participant counts are rounded
// to integers, p-values use 3 decimals (exponent form below 0.001) and other
// numbers use 2 decimals. Non-numeric text is returned unchanged.
func FormatCell(v dataset.Value, header string) string {
	if v.IsEmpty() {
		return emptyCell
	}
	num, ok := display.ParseNumber(v.String())
	if !ok {
		return v.String()
	}

	h := strings.ToLower(header)
	switch {
	case h == "n" || strings.Contains(h, "participants"):
		return strconv.FormatFloat(math.Floor(num+0.5), 'f', 0, 64)
	case isPValueHeader(h):
		return formatPValue(num)
	default:
		return strconv.FormatFloat(num, 'f', 2, 64)
	}
}

func isPValueHeader(h string) bool {
	return strings.Contains(h, "pvalue") || strings.Contains(h, "p_value") || strings.Contains(h, "p value")
}

func formatPValue(p float64) string {
	if p < 0.001 {
		return exponential(p, 2)
	}
	return strconv.FormatFloat(p, 'f', 3, 64)
}

// exponential formats like 1.23e-4: signed exponent without zero padding
func exponential(f float64, digits int) string {
	s := strconv.FormatFloat(f, 'e', digits, 64)
	mantissa, exp, found := strings.Cut(s, "e")
	if !found {
		return s
	}
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}

// Forest plot geometry, in SVG user units
const (
	forestWidth      = 720
	forestLabelWidth = 220
	forestPValWidth  = 90
	forestRowHeight  = 22
	forestTopPad     = 12
	forestAxisHeight = 36
)

// ForestPlot is the laid-out SVG of one forest block
type ForestPlot struct {
	Width, Height float64
	PlotLeft      float64
	PlotRight     float64
	AxisY         float64
	NullX         float64

	// Text anchors
	LabelX, PValueX        float64
	TickY                  float64
	AxisLabelX, AxisLabelY float64

	EffectLabel string
	Rows        []ForestPlotRow
	Ticks       []ForestTick
}

// ForestPlotRow is one interval line with its point estimate
type ForestPlotRow struct {
	Y      float64
	Label  string
	X      float64
	X1, X2 float64
	Title  string
	PValue string
}

// ForestTick is an axis tick
type ForestTick struct {
	X     float64
	Label string
}

// layoutForest places block rows on a linear axis spanning every interval and
// the null effect of 1
func layoutForest(block visualization.ForestBlock) ForestPlot {
	lo, hi := 1.0, 1.0
	for _, r := range block.Rows {
		lo = math.Min(lo, r.Lower)
		hi = math.Max(hi, r.Upper)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	lo, hi = lo-pad, hi+pad

	plot := ForestPlot{
		Width:       forestWidth,
		PlotLeft:    forestLabelWidth,
		PlotRight:   forestWidth - forestPValWidth,
		EffectLabel: block.EffectLabel,
	}
	scale := func(v float64) float64 {
		return plot.PlotLeft + (v-lo)/(hi-lo)*(plot.PlotRight-plot.PlotLeft)
	}

	for i, r := range block.Rows {
		row := ForestPlotRow{
			Y:     float64(forestTopPad + i*forestRowHeight + forestRowHeight/2),
			Label: r.Label,
			X:     scale(r.Effect),
			X1:    scale(r.Effect - r.ErrorLow),
			X2:    scale(r.Effect + r.ErrorHigh),
			Title: fmt.Sprintf("%s: %.2f (%.2f to %.2f)", r.Label, r.Effect, r.Lower, r.Upper),
		}
		if r.Model != "" {
			row.Title += " [" + r.Model + "]"
		}
		if r.PValue != nil {
			row.PValue = formatPValue(*r.PValue)
		}
		plot.Rows = append(plot.Rows, row)
	}

	plot.AxisY = float64(forestTopPad + len(block.Rows)*forestRowHeight)
	plot.Height = plot.AxisY + forestAxisHeight
	plot.NullX = scale(1)
	plot.LabelX = plot.PlotLeft - 8
	plot.PValueX = plot.Width - 4
	plot.TickY = plot.AxisY + 16
	plot.AxisLabelX = (plot.PlotLeft + plot.PlotRight) / 2
	plot.AxisLabelY = plot.Height - 2

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		v := lo + (hi-lo)*float64(i)/ticks
		plot.Ticks = append(plot.Ticks, ForestTick{X: scale(v), Label: strconv.FormatFloat(v, 'f', 2, 64)})
	}
	return plot
}

// typeLabel is the display name of a search type token
func typeLabel(token string) string {
	if token == "" {
		return "all"
	}
	return strings.ReplaceAll(token, "_", " + ")
}
