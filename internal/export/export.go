// Package export writes a narrowed result set as a single CSV download.
package export

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"proteoportal/domain/dataset"
	"proteoportal/internal/errors"
)

// SourceColumn is the leading column naming the file each row came from
const SourceColumn = "source_file"

// DefaultFilename is used when a title yields an empty slug
const DefaultFilename = "filtered-results.csv"

// Headers returns SourceColumn followed by the union of table headers in first-seen order
func Headers(tables []*dataset.Table) []string {
	headers := []string{SourceColumn}
	seen := map[string]struct{}{SourceColumn: {}}
	for _, t := range tables {
		for _, h := range t.Headers {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			headers = append(headers, h)
		}
	}
	return headers
}

// WriteCSV writes one line per row across tables, newline separated. Headers a
// table lacks are written as empty cells.
func WriteCSV(w io.Writer, tables []*dataset.Table) error {
	bw := bufio.NewWriter(w)
	headers := Headers(tables)

	writeLine(bw, headers)
	for _, t := range tables {
		for _, row := range t.Rows {
			bw.WriteByte('\n')
			fields := make([]string, len(headers))
			fields[0] = t.Filename
			for i, h := range headers[1:] {
				fields[i+1] = row.Get(h).String()
			}
			writeLine(bw, fields)
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write CSV export")
	}
	return nil
}

func writeLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(Escape(f))
	}
}

// Escape quotes a value containing a comma, a double quote or a line break and
// doubles any quotes inside it. Other values are returned unchanged.
func Escape(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Filename turns a section title into a download file name
func Filename(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return DefaultFilename
	}
	return slug + ".csv"
}
