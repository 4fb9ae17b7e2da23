package excel

import (
	"context"

	"proteoportal/domain/dataset"
)

// TableSource serves result tables from CSV files on local disk
type TableSource struct {
	opts ReaderOptions
}

// NewTableSource creates a CSV-backed table source
func NewTableSource(opts ReaderOptions) *TableSource {
	return &TableSource{opts: opts}
}

// LoadTables loads paths with LoadAll
func (s *TableSource) LoadTables(ctx context.Context, paths []string) []*dataset.Table {
	return LoadAll(ctx, paths, s.opts)
}

// ListFiles lists the CSV files in dir
func (s *TableSource) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ListCSVFiles(dir)
}
