package visualization

import (
	"fmt"
	"math"
)

const colorEpsilon = 1e-9

type rgb struct {
	r, g, b float64
}

var (
	neutralColor  = rgb{255, 255, 255}
	positiveColor = rgb{220, 38, 38}
	negativeColor = rgb{37, 99, 235}
)

// Color maps value onto a diverging scale: value is divided by the larger of
// |min| and |max| and clamped to [-1, 1]; positive values move from white
// towards red, negative values towards blue.
func Color(value, min, max float64) string {
	scale := math.Max(math.Max(math.Abs(min), math.Abs(max)), colorEpsilon)
	t := math.Max(-1, math.Min(1, value/scale))
	if math.IsNaN(t) {
		t = 0
	}

	target := positiveColor
	if t < 0 {
		target = negativeColor
	}
	m := math.Abs(t)
	mix := func(from, to float64) int {
		return int(math.Round(from + (to-from)*m))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)",
		mix(neutralColor.r, target.r),
		mix(neutralColor.g, target.g),
		mix(neutralColor.b, target.b))
}

// CellColor is Color for a heatmap cell of block
func (b HeatmapBlock) CellColor(cell *HeatmapCell) string {
	if cell == nil {
		return "transparent"
	}
	return Color(cell.Value, b.Min, b.Max)
}
