package dataset

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a single CSV cell: the raw text plus the number inferred at load time, if any
type Value struct {
	raw     string
	num     float64
	numeric bool
}

// StringValue creates a text cell
func StringValue(raw string) Value {
	return Value{raw: raw}
}

// NumberValue creates a cell whose raw text was recognised as the number f
func NumberValue(raw string, f float64) Value {
	return Value{raw: raw, num: f, numeric: true}
}

// String returns the raw cell text
func (v Value) String() string {
	return v.raw
}

// Float returns the number inferred at load time. Consumers that need a number
// regardless of load-time inference should use the coercer instead.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

// IsNumeric reports whether a number was inferred for the cell
func (v Value) IsNumeric() bool {
	return v.numeric
}

// IsEmpty reports whether the cell holds only whitespace
func (v Value) IsEmpty() bool {
	return strings.TrimSpace(v.raw) == ""
}

// MarshalJSON encodes numeric cells as JSON numbers and everything else as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON accepts a JSON number, string or null
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = NumberValue(string(data), f)
	return nil
}

// Row maps a header to its cell value
type Row map[string]Value

// Get returns the cell for header, or an empty value when the row has none
func (r Row) Get(header string) Value {
	return r[header]
}

// Table is one loaded CSV file: its headers in file order and its rows in file order
type Table struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title,omitempty"`
	Headers  []string `json:"headers"`
	Rows     []Row    `json:"rows"`
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// WithRows returns a copy of the table carrying rows instead of the original rows.
// Headers are copied so callers can never alias the source table.
func (t *Table) WithRows(rows []Row) *Table {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	return &Table{
		Filename: t.Filename,
		Title:    t.Title,
		Headers:  headers,
		Rows:     rows,
	}
}

// Query is a search term together with the columns it may match against.
// Empty Columns means every column of a table is a candidate.
type Query struct {
	Term    string   `json:"term"`
	Columns []string `json:"columns,omitempty"`
}

// IsEmpty reports whether the term imposes no constraint
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Term) == ""
}
