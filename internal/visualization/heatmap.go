package visualization

import (
	"sort"
	"strings"

	"proteoportal/adapters/datareadiness/coercer"
	"proteoportal/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// HeatmapCell is the aggregate of every row observed for one row/column label pair
type HeatmapCell struct {
	Value  float64  `json:"value"`
	PValue *float64 `json:"pvalue,omitempty"`
	Count  int      `json:"count"`
}

// HeatmapBlock is the heatmap of one table. Matrix[i][j] is nil when the pair
// Rows[i], Cols[j] was never observed.
type HeatmapBlock struct {
	Filename    string           `json:"filename"`
	Title       string           `json:"title"`
	RowAxis     string           `json:"rowAxis"`
	ColAxis     string           `json:"colAxis"`
	ValueColumn string           `json:"valueColumn"`
	Rows        []string         `json:"rows"`
	Cols        []string         `json:"cols"`
	Matrix      [][]*HeatmapCell `json:"matrix"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
}

type cellKey struct {
	row, col string
}

type cellAccumulator struct {
	values  []float64
	pvalues []float64
}

// labelCounter tallies label frequency and remembers first-seen order
type labelCounter struct {
	counts map[string]int
	order  []string
}

func newLabelCounter() *labelCounter {
	return &labelCounter{counts: make(map[string]int)}
}

func (c *labelCounter) add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// top returns the n most frequent labels; ties keep first-seen order
func (c *labelCounter) top(n int) []string {
	labels := make([]string, len(c.order))
	copy(labels, c.order)
	sort.SliceStable(labels, func(i, j int) bool {
		return c.counts[labels[i]] > c.counts[labels[j]]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}

// BuildHeatmapBlocks derives one heatmap per table that has an effect (beta)
// column and two distinct axis columns. Each cell holds the mean effect and
// the minimum p-value of its label pair, restricted to the opts.HeatmapTopN
// most frequent row and column labels. Min and Max span the present cells and
// are both 0 when there are none.
func BuildHeatmapBlocks(tables []*dataset.Table, opts Options) []HeatmapBlock {
	opts = opts.withDefaults()
	blocks := make([]HeatmapBlock, 0, len(tables))

	for _, table := range tables {
		valueCol, ok := resolveRole(table.Headers, RoleBeta)
		if !ok {
			continue
		}
		rowAxis, ok := ResolveColumn(table.Headers, opts.RowAxes...)
		if !ok {
			continue
		}
		colAxis, ok := resolveExcluding(table.Headers, rowAxis, opts.ColAxes)
		if !ok {
			continue
		}
		pvalueCol, _ := resolveRole(table.Headers, RolePValue)

		cells := make(map[cellKey]*cellAccumulator)
		rowLabels, colLabels := newLabelCounter(), newLabelCounter()
		for _, row := range table.Rows {
			r := strings.TrimSpace(row.Get(rowAxis).String())
			c := strings.TrimSpace(row.Get(colAxis).String())
			if r == "" || c == "" {
				continue
			}
			v, ok := coercer.Number(row.Get(valueCol))
			if !ok {
				continue
			}

			key := cellKey{row: r, col: c}
			acc := cells[key]
			if acc == nil {
				acc = &cellAccumulator{}
				cells[key] = acc
			}
			acc.values = append(acc.values, v)
			if pvalueCol != "" {
				if p, ok := coercer.Number(row.Get(pvalueCol)); ok {
					acc.pvalues = append(acc.pvalues, p)
				}
			}
			rowLabels.add(r)
			colLabels.add(c)
		}
		if len(cells) == 0 {
			continue
		}

		block := HeatmapBlock{
			Filename:    table.Filename,
			Title:       titleOf(table),
			RowAxis:     rowAxis,
			ColAxis:     colAxis,
			ValueColumn: valueCol,
			Rows:        rowLabels.top(opts.HeatmapTopN),
			Cols:        colLabels.top(opts.HeatmapTopN),
		}
		block.Matrix, block.Min, block.Max = buildMatrix(block.Rows, block.Cols, cells)
		blocks = append(blocks, block)
	}
	return blocks
}

func buildMatrix(rows, cols []string, cells map[cellKey]*cellAccumulator) ([][]*HeatmapCell, float64, float64) {
	matrix := make([][]*HeatmapCell, len(rows))
	var present []float64

	for i, r := range rows {
		matrix[i] = make([]*HeatmapCell, len(cols))
		for j, c := range cols {
			acc, ok := cells[cellKey{row: r, col: c}]
			if !ok {
				continue
			}
			cell := aggregate(acc)
			matrix[i][j] = cell
			present = append(present, cell.Value)
		}
	}

	if len(present) == 0 {
		return matrix, 0, 0
	}
	return matrix, floats.Min(present), floats.Max(present)
}

func aggregate(acc *cellAccumulator) *HeatmapCell {
	cell := &HeatmapCell{Count: len(acc.values)}
	// Accumulators always hold at least one value, so Mean cannot fail here.
	cell.Value, _ = stats.Mean(acc.values)
	if len(acc.pvalues) > 0 {
		p, err := stats.Min(acc.pvalues)
		if err == nil {
			cell.PValue = &p
		}
	}
	return cell
}
