package ports

import (
	"context"

	"proteoportal/domain/dataset"
)

// TableLoader loads result tables from storage. Loading is fail-soft: files that
// cannot be read are left out of the returned slice rather than reported.
type TableLoader interface {
	LoadTables(ctx context.Context, paths []string) []*dataset.Table
}

// FileLister enumerates the result files available under a data directory
type FileLister interface {
	ListFiles(ctx context.Context, dir string) ([]string, error)
}

// TableSource is the read-only data access used by the portal service
type TableSource interface {
	TableLoader
	FileLister
}
