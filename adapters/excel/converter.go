package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"proteoportal/internal"
	"proteoportal/internal/errors"

	"github.com/xuri/excelize/v2"
)

// ColumnRename maps a workbook column to its CSV header
type ColumnRename struct {
	From string
	To   string
}

// SheetSpec describes how one workbook sheet becomes one CSV file
type SheetSpec struct {
	Sheet   string
	Output  string
	Columns []ColumnRename
}

// DefaultSheetSpecs lists the sheets of the results workbook
var DefaultSheetSpecs = []SheetSpec{
	{
		Sheet:  "mri_associations",
		Output: "mri_association.csv",
		Columns: []ColumnRename{
			{"CMR IDP category", "cmr_category"},
			{"CMR IDP", "cmr_trait"},
			{"BMR IDP category", "bmr_category"},
			{"BMR IDP", "bmr_trait"},
			{"Participants number", "n"},
			{"Correlation coefficient", "beta"},
			{"P value", "pvalue"},
		},
	},
	{
		Sheet:  "protein_mri_associations",
		Output: "protein_mri_association.csv",
		Columns: []ColumnRename{
			{"Model", "model"},
			{"MRI IDP category", "mri_category"},
			{"MRI IDP", "mri_trait"},
			{"Proteins", "protein"},
			{"Participants number", "n"},
			{"Correlation coefficient", "beta"},
			{"P value", "pvalue"},
		},
	},
	{
		Sheet:  "protein_prevalence",
		Output: "protein_prevalence.csv",
		Columns: []ColumnRename{
			{"Analysis model", "model"},
			{"Disease category", "disease_category"},
			{"Diseases", "disease"},
			{"Incident Rate (%)", "incident_rate"},
			{"Proteins", "protein"},
			{"Coefficient", "beta"},
			{"Odds Ratio", "odds_ratio"},
			{"95% CI Lower", "ci_lower"},
			{"95% CI Upper", "ci_upper"},
			{"P Value", "pvalue"},
		},
	},
	{
		Sheet:  "protein_incidence",
		Output: "protein_incidence.csv",
		Columns: []ColumnRename{
			{"Analysis model", "model"},
			{"Disease category", "disease_category"},
			{"Diseases", "disease"},
			{"Incident Rate (%)", "incident_rate"},
			{"Proteins", "protein"},
			{"Hazard Ratio", "hazard_ratio"},
			{"95% CI Lower", "ci_lower"},
			{"95% CI Upper", "ci_upper"},
			{"P Value", "pvalue"},
		},
	},
	{
		Sheet:  "protein_diseases_causality",
		Output: "protein_disease_causality.csv",
		Columns: []ColumnRename{
			{"Disease group", "disease_group"},
			{"Category", "disease_category"},
			{"Disease GWAS name", "disease"},
			{"GWAS ID", "gwas_id"},
			{"Proteins", "protein"},
			{"MR method", "mr_method"},
			{"Number of SNP", "snps"},
			{"Odds Ratio", "odds_ratio"},
			{"95% CI Lower", "ci_lower"},
			{"95% CI Upper", "ci_upper"},
			{"P value", "pvalue"},
		},
	},
}

// ConvertResult summarises one converted sheet
type ConvertResult struct {
	Sheet      string `json:"sheet"`
	Output     string `json:"output"`
	Rows       int    `json:"rows"`
	Duplicates int    `json:"duplicates"`
}

// Converter writes workbook sheets out as the CSV tables the portal serves
type Converter struct {
	specs  []SheetSpec
	logger *internal.Logger
}

// NewConverter creates a converter for specs; nil specs means DefaultSheetSpecs
func NewConverter(specs []SheetSpec, logger *internal.Logger) *Converter {
	if specs == nil {
		specs = DefaultSheetSpecs
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Converter{specs: specs, logger: logger}
}

// Convert reads workbookPath and writes one CSV per sheet spec into outputDir.
// It stops at the first sheet that is missing or lacks a mapped column.
func (c *Converter) Convert(workbookPath, outputDir string) ([]ConvertResult, error) {
	if _, err := os.Stat(workbookPath); err != nil {
		return nil, errors.LoadError(workbookPath, err)
	}

	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, errors.LoadError(workbookPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	results := make([]ConvertResult, 0, len(c.specs))
	for _, spec := range c.specs {
		result, err := c.convertSheet(f, spec, outputDir)
		if err != nil {
			return results, err
		}
		c.logger.Info("%s: removed %d duplicate row(s)", spec.Sheet, result.Duplicates)
		results = append(results, result)
	}
	return results, nil
}

func (c *Converter) convertSheet(f *excelize.File, spec SheetSpec, outputDir string) (ConvertResult, error) {
	rows, err := f.GetRows(spec.Sheet)
	if err != nil {
		return ConvertResult{}, errors.ParseError(spec.Sheet, err)
	}
	if len(rows) == 0 {
		return ConvertResult{}, errors.ParseError(spec.Sheet, fmt.Errorf("sheet is empty"))
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(h)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	var missing []string
	positions := make([]int, len(spec.Columns))
	for i, col := range spec.Columns {
		pos, ok := index[col.From]
		if !ok {
			missing = append(missing, col.From)
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return ConvertResult{}, errors.InvalidInput(
			fmt.Sprintf("Sheet '%s' missing columns: %s", spec.Sheet, strings.Join(missing, ", ")))
	}

	records := make([][]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	duplicates := 0
	for _, row := range rows[1:] {
		record := make([]string, len(positions))
		blank := true
		for i, pos := range positions {
			if pos < len(row) {
				record[i] = strings.TrimSpace(row[pos])
			}
			if record[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		key := strings.Join(record, "\x1f")
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		records = append(records, record)
	}

	header := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		header[i] = col.To
	}

	outPath := filepath.Join(outputDir, spec.Output)
	if err := writeCSVFile(outPath, header, records); err != nil {
		return ConvertResult{}, err
	}

	return ConvertResult{
		Sheet:      spec.Sheet,
		Output:     outPath,
		Rows:       len(records),
		Duplicates: duplicates,
	}, nil
}

func writeCSVFile(path string, header []string, records [][]string) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return out.Close()
}
