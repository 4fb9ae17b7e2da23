package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"proteoportal/domain/dataset"
	"proteoportal/internal"
	"proteoportal/internal/errors"
	"proteoportal/internal/export"
	"proteoportal/internal/search"
	"proteoportal/internal/visualization"
	"proteoportal/ports"
)

// PortalService answers search, figure and export requests over the result tables in one directory
type PortalService struct {
	source     ports.TableSource
	dataDir    string
	figureOpts visualization.Options
	logger     *internal.Logger
}

// SearchRequest carries the parameters shared by search, figures and export
type SearchRequest struct {
	Query      string
	Type       string
	Files      []string
	Group      string
	Filter     string
	FilterType string
}

// SearchResponse is the narrowed result set
type SearchResponse struct {
	Results      []*dataset.Table `json:"results"`
	TotalResults int              `json:"totalResults"`
	SearchTerm   string           `json:"searchTerm"`
	SearchType   string           `json:"searchType"`
}

// NewPortalService creates a portal service reading tables from dataDir through source
func NewPortalService(source ports.TableSource, dataDir string, figureOpts visualization.Options, logger *internal.Logger) *PortalService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PortalService{
		source:     source,
		dataDir:    dataDir,
		figureOpts: figureOpts,
		logger:     logger,
	}
}

// ListFiles returns the available result files, or an empty list when they cannot be listed
func (s *PortalService) ListFiles(ctx context.Context) []string {
	files, err := s.source.ListFiles(ctx, s.dataDir)
	if err != nil {
		s.logger.Warn("[PortalService] listing %s failed: %v", s.dataDir, err)
		return []string{}
	}
	return files
}

// Groups returns the dataset groups
func (s *PortalService) Groups() []dataset.Group {
	return dataset.Groups
}

// Search loads the selected files and narrows them with the primary query and,
// when it has a term, the filter query. A missing data directory is not an
// error: it yields an empty result.
func (s *PortalService) Search(ctx context.Context, req SearchRequest) (resp *SearchResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[PortalService] search panicked: %v", r)
			resp, err = nil, errors.InternalError(fmt.Sprintf("%v", r))
		}
	}()

	start := time.Now()
	searchType := req.Type
	if strings.TrimSpace(searchType) == "" {
		searchType = search.TypeAll
	}
	resp = &SearchResponse{
		Results:    []*dataset.Table{},
		SearchTerm: req.Query,
		SearchType: searchType,
	}

	files, err := s.source.ListFiles(ctx, s.dataDir)
	if err != nil {
		if errors.HasCode(err, errors.CodeLoadError) {
			s.logger.Warn("[PortalService] data directory %s unavailable, returning empty results", s.dataDir)
			return resp, nil
		}
		return nil, errors.Wrap(err, "failed to list data files")
	}

	files = selectFiles(files, req.Files, req.Group)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(s.dataDir, f)
	}

	tables := s.source.LoadTables(ctx, paths)
	for _, t := range tables {
		t.Title = dataset.TitleFor(t.Filename)
	}

	query := dataset.Query{Term: req.Query, Columns: search.Columns(searchType)}
	var filter *dataset.Query
	if strings.TrimSpace(req.Filter) != "" {
		filter = &dataset.Query{Term: req.Filter, Columns: search.Columns(req.FilterType)}
	}

	result := search.Search(tables, query, filter)
	resp.Results = result.Tables
	resp.TotalResults = result.TotalRows

	s.logger.Debug("[PortalService] q=%q type=%s filter=%q: %d row(s) in %d table(s) from %d file(s) in %.2fms",
		req.Query, searchType, req.Filter, result.TotalRows, len(result.Tables), len(paths),
		float64(time.Since(start).Nanoseconds())/1e6)
	return resp, nil
}

// Figures runs Search and derives forest and heatmap blocks from the result
func (s *PortalService) Figures(ctx context.Context, req SearchRequest) (visualization.Figures, error) {
	resp, err := s.Search(ctx, req)
	if err != nil {
		return visualization.Figures{}, err
	}
	return s.BuildFigures(resp.Results), nil
}

// BuildFigures derives forest and heatmap blocks from already narrowed tables
func (s *PortalService) BuildFigures(tables []*dataset.Table) visualization.Figures {
	return visualization.Build(tables, s.figureOpts)
}

// Export runs Search and writes the result to w as CSV, returning the number of rows written
func (s *PortalService) Export(ctx context.Context, req SearchRequest, w io.Writer) (int, error) {
	resp, err := s.Search(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(w, resp.Results); err != nil {
		return 0, err
	}
	return resp.TotalResults, nil
}

// UniqueValues runs Search and collects the distinct values of column
func (s *PortalService) UniqueValues(ctx context.Context, req SearchRequest, column string) ([]string, error) {
	if strings.TrimSpace(column) == "" {
		return nil, errors.InvalidInput("column is required")
	}
	resp, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return search.UniqueValues(resp.Results, column), nil
}

// selectFiles narrows files to the allow-list (case-insensitive) and then to the group
func selectFiles(files, allow []string, group string) []string {
	if len(allow) > 0 {
		wanted := make(map[string]struct{}, len(allow))
		for _, f := range allow {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				wanted[f] = struct{}{}
			}
		}
		if len(wanted) > 0 {
			kept := make([]string, 0, len(files))
			for _, f := range files {
				if _, ok := wanted[strings.ToLower(f)]; ok {
					kept = append(kept, f)
				}
			}
			files = kept
		}
	}

	if members := dataset.ResolveGroup(group, files); members != nil {
		files = members
	}
	return files
}

// ParseFiles splits a comma-separated file list
func ParseFiles(param string) []string {
	if strings.TrimSpace(param) == "" {
		return nil
	}
	var files []string
	for _, f := range strings.Split(param, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
