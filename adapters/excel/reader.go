package excel

import (
	"bufio"
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"proteoportal/adapters/datareadiness/coercer"
	"proteoportal/domain/dataset"
	"proteoportal/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader reads one CSV result table
type DataReader struct {
	filePath string
	opts     ReaderOptions
}

// NewDataReader creates a reader with default options
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, opts: DefaultReaderOptions()}
}

// WithOptions returns a copy of the reader using opts
func (r *DataReader) WithOptions(opts ReaderOptions) *DataReader {
	return &DataReader{filePath: r.filePath, opts: opts}
}

// ReadTable parses the file into a table. Headers keep first-row order; every
// row carries a value for every header. A file that cannot be opened yields a
// LOAD_ERROR; a file with parse errors and no recovered rows yields a PARSE_ERROR.
// Parse errors alongside recovered rows are logged and otherwise ignored.
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	log := r.opts.logger()
	start := time.Now()

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.LoadError(r.filePath, err)
	}
	defer file.Close()

	table, parseErrs, err := r.parse(file)
	if err != nil {
		return nil, errors.LoadError(r.filePath, err)
	}
	if len(parseErrs) > 0 {
		if table.Len() == 0 {
			return nil, errors.ParseError(r.filePath, parseErrs[0])
		}
		log.Debug("[DataReader] %s: ignored %d malformed record(s), first: %v", table.Filename, len(parseErrs), parseErrs[0])
	}

	log.Debug("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		table.Filename, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), table.Len())
	return table, nil
}

// parse reads records until EOF. Malformed records are collected and skipped;
// a non-parse read failure is returned as err.
func (r *DataReader) parse(src io.Reader) (*dataset.Table, []error, error) {
	br := bufio.NewReader(src)
	if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = !r.opts.StrictQuotes

	var numbers *coercer.TypeCoercer
	if r.opts.InferNumbers {
		numbers = coercer.NewTypeCoercer(coercer.StrictCoercionConfig())
	}

	table := &dataset.Table{Filename: filepath.Base(r.filePath)}
	var parseErrs []error
	haveHeader := false

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				parseErrs = append(parseErrs, perr)
				continue
			}
			return nil, nil, fmt.Errorf("read %s: %w", table.Filename, err)
		}
		if isBlankRecord(record) {
			continue
		}

		if !haveHeader {
			table.Headers = processHeaders(record)
			haveHeader = true
			continue
		}

		table.Rows = append(table.Rows, r.processRecord(table.Headers, record, numbers))
	}

	if table.Headers == nil {
		table.Headers = []string{}
	}
	if table.Rows == nil {
		table.Rows = []dataset.Row{}
	}
	return table, parseErrs, nil
}

// processHeaders trims header cells and suffixes repeated names so headers stay unique
func processHeaders(record []string) []string {
	headers := make([]string, len(record))
	seen := make(map[string]int, len(record))
	for i, cell := range record {
		name := strings.TrimSpace(cell)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			seen[name] = 1
		}
		headers[i] = name
	}
	return headers
}

// processRecord maps a record onto headers, padding short records with empty values
func (r *DataReader) processRecord(headers, record []string, numbers *coercer.TypeCoercer) dataset.Row {
	row := make(dataset.Row, len(headers))
	for j, header := range headers {
		cell := ""
		if j < len(record) {
			cell = record[j]
		}
		if numbers != nil {
			row[header] = numbers.CoerceValue(cell)
		} else {
			row[header] = dataset.StringValue(cell)
		}
	}
	return row
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
