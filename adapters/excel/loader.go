package excel

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"proteoportal/domain/dataset"
	"proteoportal/internal/errors"

	"golang.org/x/sync/errgroup"
)

// LoadAll reads every path independently. A file that fails to load is logged
// and left out; the batch itself never fails. Tables keep the order of paths.
func LoadAll(ctx context.Context, paths []string, opts ReaderOptions) []*dataset.Table {
	log := opts.logger()
	start := time.Now()

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	loaded := make([]*dataset.Table, len(paths))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				log.Warn("[LoadAll] skipping %s: %v", filepath.Base(path), err)
				return nil
			}
			table, err := NewDataReader(path).WithOptions(opts).ReadTable()
			if err != nil {
				log.Warn("[LoadAll] %s (%s)", err.Error(), errors.GetCode(err))
				return nil
			}
			loaded[i] = table
			return nil
		})
	}
	_ = g.Wait()

	tables := make([]*dataset.Table, 0, len(paths))
	for _, t := range loaded {
		if t != nil {
			tables = append(tables, t)
		}
	}

	log.Debug("[LoadAll] loaded %d/%d file(s) in %.2fms", len(tables), len(paths), float64(time.Since(start).Nanoseconds())/1e6)
	return tables
}

// ListCSVFiles returns the sorted names of the .csv files directly under dir
func ListCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.LoadError(dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
