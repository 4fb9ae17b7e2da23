package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"proteoportal/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTable(filename string, headers []string, records ...[]string) *dataset.Table {
	t := &dataset.Table{Filename: filename, Headers: headers}
	for _, rec := range records {
		row := make(dataset.Row, len(headers))
		for i, h := range headers {
			row[h] = dataset.StringValue(rec[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestWriteCSV(t *testing.T) {
	tables := []*dataset.Table{
		makeTable("a.csv", []string{"protein", "pvalue"},
			[]string{"IL6", "0.01"},
		),
		makeTable("b.csv", []string{"disease", "protein"},
			[]string{"Stroke, ischaemic", `NT "pro" BNP`},
		),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tables))

	want := "source_file,protein,pvalue,disease\n" +
		"a.csv,IL6,0.01,\n" +
		`b.csv,"NT ""pro"" BNP",,"Stroke, ischaemic"`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tables := []*dataset.Table{
		makeTable("mri_association.csv", []string{"cmr_trait", "bmr_trait", "beta"},
			[]string{"LV mass", "Hippocampus\nvolume", "0.1"},
			[]string{"LV, EF", "", "-0.2"},
		),
		makeTable("protein_disease_causality.csv", []string{"protein", "disease", "beta"},
			[]string{"NT-proBNP", `"Heart" failure`, "0.3"},
		),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tables))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	header := records[0]
	require.Len(t, records, 4)

	type tuple struct{ source, header, value string }
	var got, want []tuple
	for _, rec := range records[1:] {
		for i, h := range header[1:] {
			got = append(got, tuple{rec[0], h, rec[i+1]})
		}
	}
	for _, table := range tables {
		for _, row := range table.Rows {
			for _, h := range header[1:] {
				want = append(want, tuple{table.Filename, h, row.Get(h).String()})
			}
		}
	}
	assert.ElementsMatch(t, want, got)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "source_file", buf.String())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "plain", Escape("plain"))
	assert.Equal(t, " leading space", Escape(" leading space"))
	assert.Equal(t, `"a,b"`, Escape("a,b"))
	assert.Equal(t, `"say ""hi"""`, Escape(`say "hi"`))
	assert.Equal(t, "\"two\nlines\"", Escape("two\nlines"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "disease-causality.csv", Filename("Disease Causality"))
	assert.Equal(t, "mri-phenotypes.csv", Filename("  MRI Phenotypes!  "))
	assert.Equal(t, "protein-mri-association.csv", Filename("Protein–MRI association"))
	assert.Equal(t, DefaultFilename, Filename(""))
	assert.Equal(t, DefaultFilename, Filename("—"))
}
