// Package visualization derives plot-ready structures from narrowed result
// tables: forest plots of effect estimates with confidence intervals and
// heatmaps of averaged effects. It never draws anything itself.
package visualization

import "proteoportal/domain/dataset"

// Default limits
const (
	ForestRowLimit = 20
	HeatmapTopN    = 12
)

// Options bounds the figure derivations
type Options struct {
	ForestRowLimit int
	HeatmapTopN    int
	// RowAxes and ColAxes list heatmap axis candidates in precedence order.
	RowAxes []string
	ColAxes []string
}

// DefaultOptions returns the standard limits and axis precedence
func DefaultOptions() Options {
	return Options{
		ForestRowLimit: ForestRowLimit,
		HeatmapTopN:    HeatmapTopN,
		RowAxes:        DefaultRowAxes,
		ColAxes:        DefaultColAxes,
	}
}

func (o Options) withDefaults() Options {
	if o.ForestRowLimit <= 0 {
		o.ForestRowLimit = ForestRowLimit
	}
	if o.HeatmapTopN <= 0 {
		o.HeatmapTopN = HeatmapTopN
	}
	if len(o.RowAxes) == 0 {
		o.RowAxes = DefaultRowAxes
	}
	if len(o.ColAxes) == 0 {
		o.ColAxes = DefaultColAxes
	}
	return o
}

// Figures holds every block derived from one result set
type Figures struct {
	Forest   []ForestBlock  `json:"forest"`
	Heatmaps []HeatmapBlock `json:"heatmaps"`
}

// Build runs both derivations over tables
func Build(tables []*dataset.Table, opts Options) Figures {
	return Figures{
		Forest:   BuildForestBlocks(tables, opts),
		Heatmaps: BuildHeatmapBlocks(tables, opts),
	}
}

func titleOf(t *dataset.Table) string {
	if t.Title != "" {
		return t.Title
	}
	return dataset.TitleFor(t.Filename)
}
