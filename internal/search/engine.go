// Package search narrows loaded result tables to the rows matching a keyword
// query, optionally followed by a second filter query over the survivors.
package search

import (
	"sort"
	"strings"

	"proteoportal/domain/dataset"
)

// Result is the outcome of a search: the non-empty narrowed tables and their total row count
type Result struct {
	Tables    []*dataset.Table `json:"tables"`
	TotalRows int              `json:"total_rows"`
}

// Search runs query over tables and then, when filter has a term, runs filter
// over the rows that survived. Input tables are never modified.
func Search(tables []*dataset.Table, query dataset.Query, filter *dataset.Query) Result {
	matched := Filter(tables, query)
	if filter != nil && !filter.IsEmpty() {
		matched = Filter(matched, *filter)
	}

	total := 0
	for _, t := range matched {
		total += t.Len()
	}
	return Result{Tables: matched, TotalRows: total}
}

// Filter keeps the rows of each table where at least one candidate column
// contains every query term as a whole word. Candidate columns are the query's
// columns resolved case-insensitively against the table headers, or every
// header when the query names none. Row order is kept and tables left without
// rows are dropped. An empty term keeps every row.
func Filter(tables []*dataset.Table, query dataset.Query) []*dataset.Table {
	terms := Terms(query.Term)
	out := make([]*dataset.Table, 0, len(tables))

	for _, table := range tables {
		if table == nil {
			continue
		}

		var rows []dataset.Row
		if len(terms) == 0 {
			rows = append(rows, table.Rows...)
		} else {
			candidates := candidateColumns(table.Headers, query.Columns)
			for _, row := range table.Rows {
				if rowMatches(row, candidates, terms) {
					rows = append(rows, row)
				}
			}
		}

		if len(rows) == 0 {
			continue
		}
		out = append(out, table.WithRows(rows))
	}
	return out
}

func rowMatches(row dataset.Row, columns []string, terms []string) bool {
	for _, col := range columns {
		if matchesAllTerms(strings.ToLower(row.Get(col).String()), terms) {
			return true
		}
	}
	return false
}

// candidateColumns resolves requested names against headers without regard to
// case. Names that resolve to nothing are dropped, so a table may end up with
// no candidates at all.
func candidateColumns(headers, requested []string) []string {
	if len(requested) == 0 {
		return headers
	}

	lookup := headerLookup(headers)
	seen := make(map[string]struct{}, len(requested))
	resolved := make([]string, 0, len(requested))
	for _, name := range requested {
		header, ok := lookup[strings.ToLower(name)]
		if !ok {
			continue
		}
		if _, dup := seen[header]; dup {
			continue
		}
		seen[header] = struct{}{}
		resolved = append(resolved, header)
	}
	return resolved
}

// headerLookup maps lowercased header names to the header as written. The
// first header wins when two differ only in case.
func headerLookup(headers []string) map[string]string {
	lookup := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(h)
		if _, exists := lookup[key]; !exists {
			lookup[key] = h
		}
	}
	return lookup
}

// UniqueValues collects the distinct trimmed non-empty values of column across
// tables, sorted. The column is matched case-insensitively per table.
func UniqueValues(tables []*dataset.Table, column string) []string {
	set := make(map[string]struct{})
	for _, table := range tables {
		header, ok := headerLookup(table.Headers)[strings.ToLower(column)]
		if !ok {
			continue
		}
		for _, row := range table.Rows {
			if v := strings.TrimSpace(row.Get(header).String()); v != "" {
				set[v] = struct{}{}
			}
		}
	}

	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
