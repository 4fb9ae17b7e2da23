package visualization

import (
	"math"
	"sort"
	"strings"

	"proteoportal/adapters/datareadiness/coercer"
	"proteoportal/domain/dataset"
)

// ForestDatum is one effect estimate with its confidence interval
type ForestDatum struct {
	Label  string  `json:"label"`
	Model  string  `json:"model,omitempty"`
	Effect float64 `json:"effect"`
	// ErrorLow and ErrorHigh are the distances from Effect to the interval bounds, never negative.
	ErrorLow  float64  `json:"errorLow"`
	ErrorHigh float64  `json:"errorHigh"`
	Lower     float64  `json:"lower"`
	Upper     float64  `json:"upper"`
	PValue    *float64 `json:"pvalue,omitempty"`
}

// ForestBlock is the forest plot of one table
type ForestBlock struct {
	Filename    string        `json:"filename"`
	Title       string        `json:"title"`
	EffectLabel string        `json:"effectLabel"`
	Causal      bool          `json:"causal"`
	Rows        []ForestDatum `json:"rows"`
}

type forestColumns struct {
	effect, effectLabel string
	lower, upper        string
	pvalue, model       string
	protein, disease    string
	label               string
}

func resolveForestColumns(headers []string) (forestColumns, bool) {
	var cols forestColumns
	var ok bool

	if cols.effect, ok = resolveRole(headers, RoleOddsRatio); ok {
		cols.effectLabel = "Odds ratio"
	} else if cols.effect, ok = resolveRole(headers, RoleHazardRatio); ok {
		cols.effectLabel = "Hazard ratio"
	} else {
		return cols, false
	}
	if cols.lower, ok = resolveRole(headers, RoleCILower); !ok {
		return cols, false
	}
	if cols.upper, ok = resolveRole(headers, RoleCIUpper); !ok {
		return cols, false
	}

	cols.pvalue, _ = resolveRole(headers, RolePValue)
	cols.model, _ = resolveRole(headers, RoleModel)
	cols.protein, _ = resolveRole(headers, RoleProtein)
	cols.disease, _ = resolveRole(headers, RoleDisease)
	if cols.label, ok = resolveRole(headers, RoleLabel); !ok && len(headers) > 0 {
		cols.label = headers[0]
	}
	return cols, true
}

func (c forestColumns) pairLabels() bool {
	return c.protein != "" && c.disease != ""
}

// BuildForestBlocks derives one forest block per table that has an effect
// column (odds ratio, else hazard ratio) and both interval bounds. Rows with a
// non-numeric effect, bound or p-value are dropped. Causality tables with
// protein, disease and p-value columns keep the lowest-p row per protein and
// disease pair, ordered by ascending p; other tables keep the first
// opts.ForestRowLimit valid rows in order. Blocks without rows are omitted.
func BuildForestBlocks(tables []*dataset.Table, opts Options) []ForestBlock {
	opts = opts.withDefaults()
	blocks := make([]ForestBlock, 0, len(tables))

	for _, table := range tables {
		cols, ok := resolveForestColumns(table.Headers)
		if !ok {
			continue
		}
		causal := strings.Contains(strings.ToLower(table.Filename), "causality") &&
			cols.pairLabels() && cols.pvalue != ""

		var rows []ForestDatum
		var keys []string
		for _, row := range table.Rows {
			datum, ok := forestDatum(row, cols)
			if !ok {
				continue
			}
			rows = append(rows, datum)
			if causal {
				keys = append(keys, pairKey(row, cols))
			} else if len(rows) == opts.ForestRowLimit {
				break
			}
		}
		if causal {
			rows = bestPerPair(rows, keys)
		}
		if len(rows) == 0 {
			continue
		}

		blocks = append(blocks, ForestBlock{
			Filename:    table.Filename,
			Title:       titleOf(table),
			EffectLabel: cols.effectLabel,
			Causal:      causal,
			Rows:        rows,
		})
	}
	return blocks
}

func forestDatum(row dataset.Row, cols forestColumns) (ForestDatum, bool) {
	effect, ok := coercer.Number(row.Get(cols.effect))
	if !ok {
		return ForestDatum{}, false
	}
	lower, ok := coercer.Number(row.Get(cols.lower))
	if !ok {
		return ForestDatum{}, false
	}
	upper, ok := coercer.Number(row.Get(cols.upper))
	if !ok {
		return ForestDatum{}, false
	}

	datum := ForestDatum{
		Effect:    effect,
		Lower:     lower,
		Upper:     upper,
		ErrorLow:  math.Max(0, effect-lower),
		ErrorHigh: math.Max(0, upper-effect),
	}
	if cols.pvalue != "" {
		p, ok := coercer.Number(row.Get(cols.pvalue))
		if !ok {
			return ForestDatum{}, false
		}
		datum.PValue = &p
	}
	if cols.model != "" {
		datum.Model = strings.TrimSpace(row.Get(cols.model).String())
	}

	if cols.pairLabels() {
		datum.Label = strings.TrimSpace(row.Get(cols.protein).String()) + " -> " +
			strings.TrimSpace(row.Get(cols.disease).String())
	} else if cols.label != "" {
		datum.Label = strings.TrimSpace(row.Get(cols.label).String())
	}
	return datum, true
}

func pairKey(row dataset.Row, cols forestColumns) string {
	return strings.TrimSpace(row.Get(cols.protein).String()) + "\x00" +
		strings.TrimSpace(row.Get(cols.disease).String())
}

// bestPerPair keeps the lowest-p datum per key (first seen on ties) and sorts
// the survivors by ascending p. Every datum carries a p-value here.
func bestPerPair(rows []ForestDatum, keys []string) []ForestDatum {
	best := make(map[string]int, len(rows))
	order := make([]string, 0, len(rows))
	for i, key := range keys {
		j, seen := best[key]
		if !seen {
			best[key] = i
			order = append(order, key)
			continue
		}
		if *rows[i].PValue < *rows[j].PValue {
			best[key] = i
		}
	}

	out := make([]ForestDatum, 0, len(order))
	for _, key := range order {
		out = append(out, rows[best[key]])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return *out[a].PValue < *out[b].PValue
	})
	return out
}
