package ui

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"proteoportal/adapters/excel"
	"proteoportal/app"
	"proteoportal/domain/dataset"
	"proteoportal/internal"
	"proteoportal/internal/visualization"
	"proteoportal/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func writeResults(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"mri_association.csv": "cmr_trait,bmr_trait,beta,pvalue\n" +
			"LV mass,Hippocampus volume,0.1,0.01\n",
		"protein_disease_causality.csv": "protein,disease,odds_ratio,ci_lower,ci_upper,pvalue\n" +
			"NT-proBNP,Heart failure,1.8,1.2,2.4,0.04\n" +
			"NT-proBNP,Heart failure,1.9,1.3,2.5,0.001\n" +
			"NT-proBNPX,Stroke,1.1,0.9,1.3,0.3\n" +
			"IL6,Stroke,1.2,1.0,1.4,0.02\n",
		"broken.csv": "protein,disease\nIL\"6,stroke\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestServer(t *testing.T, source ports.TableSource, dir string) *Server {
	t.Helper()
	svc := app.NewPortalService(source, dir, visualization.DefaultOptions(), internal.NewNopLogger())
	srv, err := NewServer(svc, internal.NewNopLogger())
	require.NoError(t, err)
	return srv
}

func newDiskServer(t *testing.T, dir string) *Server {
	opts := excel.DefaultReaderOptions()
	opts.StrictQuotes = true
	opts.Logger = internal.NewNopLogger()
	return newTestServer(t, excel.NewTableSource(opts), dir)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

type searchBody struct {
	Results []struct {
		Filename string                   `json:"filename"`
		Title    string                   `json:"title"`
		Headers  []string                 `json:"headers"`
		Rows     []map[string]interface{} `json:"rows"`
	} `json:"results"`
	TotalResults int    `json:"totalResults"`
	SearchTerm   string `json:"searchTerm"`
	SearchType   string `json:"searchType"`
}

func TestAPISearchProteinScenario(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/search?q=NT-proBNP&type=protein")
	require.Equal(t, http.StatusOK, rec.Code)

	var body searchBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "protein_disease_causality.csv", body.Results[0].Filename)
	assert.Equal(t, []string{"protein", "disease", "odds_ratio", "ci_lower", "ci_upper", "pvalue"}, body.Results[0].Headers)
	require.Len(t, body.Results[0].Rows, 2)
	for _, row := range body.Results[0].Rows {
		assert.Equal(t, "NT-proBNP", row["protein"])
	}
	assert.Equal(t, 0.001, body.Results[0].Rows[1]["pvalue"])
	assert.Equal(t, 2, body.TotalResults)
	assert.Equal(t, "NT-proBNP", body.SearchTerm)
	assert.Equal(t, "protein", body.SearchType)
}

func TestAPISearchMissingDataDir(t *testing.T) {
	srv := newDiskServer(t, filepath.Join(t.TempDir(), "absent"))

	rec := get(t, srv, "/api/search?q=IL6")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[],"totalResults":0,"searchTerm":"IL6","searchType":"all"}`, rec.Body.String())

	rec = get(t, srv, "/api/files")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"files":[]}`, rec.Body.String())
}

type failingSource struct{}

func (failingSource) LoadTables(context.Context, []string) []*dataset.Table { return nil }

func (failingSource) ListFiles(context.Context, string) ([]string, error) {
	return nil, stderrors.New("permission denied")
}

func TestAPISearchFailure(t *testing.T) {
	srv := newTestServer(t, failingSource{}, "/data")

	rec := get(t, srv, "/api/search?q=IL6")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to perform search", body["error"])
	assert.Contains(t, body["details"], "permission denied")
}

func TestAPIFilesAndGroups(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/files")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"files":["broken.csv","mri_association.csv","protein_disease_causality.csv"]}`, rec.Body.String())

	rec = get(t, srv, "/api/groups")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Groups []dataset.Group `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Groups, len(dataset.Groups))
	assert.Equal(t, dataset.AllGroup, body.Groups[0].Value)
}

func TestAPIFigures(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/figures?q=NT-proBNP&type=protein")
	require.Equal(t, http.StatusOK, rec.Code)

	var figs visualization.Figures
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &figs))
	require.Len(t, figs.Forest, 1)
	assert.True(t, figs.Forest[0].Causal)
	require.Len(t, figs.Forest[0].Rows, 1)
	assert.Equal(t, 1.9, figs.Forest[0].Rows[0].Effect)
	assert.Empty(t, figs.Heatmaps)
}

func TestAPIExport(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/export?q=IL6&type=protein&title=Download")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="download.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rec.Header().Get("X-Total-Results"))
	assert.Equal(t,
		"source_file,protein,disease,odds_ratio,ci_lower,ci_upper,pvalue\n"+
			"protein_disease_causality.csv,IL6,Stroke,1.2,1.0,1.4,0.02",
		rec.Body.String())

	rec = get(t, srv, "/api/export?q=IL6&type=protein")
	assert.Equal(t, `attachment; filename="filtered-results.csv"`, rec.Header().Get("Content-Disposition"))
}

func TestAPIValues(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/values?column=disease")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"column":"disease","values":["Heart failure","Stroke"]}`, rec.Body.String())

	rec = get(t, srv, "/api/values")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestID(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/api/groups")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestSectionPageTable(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/proteomics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ready to search")
	assert.Contains(t, rec.Body.String(), "e.g. NT-proBNP, TNFRSF10A, IL6…")

	// type is fixed by the section, whatever the query string says
	rec = get(t, srv, "/proteomics?q=NT-proBNP&type=disease")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Protein–disease causality (MR)")
	assert.Contains(t, body, "2 results")
	assert.Contains(t, body, "<td>1.90</td>")
	assert.Contains(t, body, "<td>0.001</td>")
	assert.NotContains(t, body, "NT-proBNPX")
	assert.NotContains(t, body, "Download CSV")
}

func TestSectionPageFigures(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/disease-causality?q=NT-proBNP&view=figure")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "NT-proBNP -&gt; Heart failure")
	assert.Contains(t, body, "p=0.001")
	assert.Contains(t, body, "Odds ratio")
}

func TestSectionPageHeatmap(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/mri-phenotypes?q=LV+mass&view=figure")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hippocampus volume")
	assert.Contains(t, body, "background: rgb(")
}

func TestSectionPageFilter(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/disease-causality?q=&filter=stroke")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 results")
	assert.Contains(t, body, "NT-proBNPX")
	assert.NotContains(t, body, "Heart failure</td>")
}

func TestDownloadPage(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/download?q=IL6")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Download CSV")
	assert.Contains(t, body, "/api/export?")
	assert.Contains(t, body, "title=Download")
}

func TestDiseaseAssociationAlias(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/disease-association")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disease outcomes")
}

func TestHomeAndAbout(t *testing.T) {
	srv := newDiskServer(t, writeResults(t))

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heart, brain &amp; proteins")

	rec = get(t, srv, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "About the portal</h1>")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = get(t, srv, "/static/css/portal.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
