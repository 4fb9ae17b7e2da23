package ui

import (
	"html/template"
	"net/url"
	"strings"

	"proteoportal/app"
	"proteoportal/domain/dataset"
	"proteoportal/internal/search"
	"proteoportal/internal/visualization"

	"github.com/gin-gonic/gin"
)

// Section is a search page with a fixed field scope
type Section struct {
	Path        string
	Aliases     []string
	Title       string
	Description string
	Placeholder string
	Hint        string
	// Type fixes the primary search type; empty lets the visitor choose.
	Type              string
	FilterType        string
	FilterPlaceholder string
	Group             string
	Download          bool
}

var sections = []Section{
	{
		Path:              "/proteomics",
		Title:             "Proteomics",
		Description:       "Search plasma proteins and explore their associations with cardiac/brain MRI traits, disease prevalence, and disease incidence across multi-cohort datasets.",
		Placeholder:       "e.g. NT-proBNP, TNFRSF10A, IL6…",
		Hint:              "Enter a protein name, gene symbol, or UniProt ID.",
		Type:              search.TypeProtein,
		FilterType:        search.TypeDiseaseMRI,
		FilterPlaceholder: "Filter by disease or MRI trait…",
	},
	{
		Path:              "/mri-phenotypes",
		Title:             "MRI Phenotypes",
		Description:       "Explore associations between cardiac and brain imaging-derived phenotypes (IDPs) and circulating plasma proteins.",
		Placeholder:       "e.g. LV mass, hippocampal volume…",
		Hint:              "Enter an MRI trait or imaging phenotype name.",
		Type:              search.TypeMRI,
		FilterType:        search.TypeProteinMRI,
		FilterPlaceholder: "Filter by protein or MRI trait…",
	},
	{
		Path:              "/disease-outcomes",
		Aliases:           []string{"/disease-association"},
		Title:             "Disease outcomes",
		Description:       "Discover plasma protein associations with cardiovascular, neurological, and psychiatric disease incidence and outcomes.",
		Placeholder:       "e.g. heart failure, dementia, atrial fibrillation…",
		Hint:              "Enter a disease name or ICD category.",
		Type:              search.TypeDisease,
		FilterType:        search.TypeProtein,
		FilterPlaceholder: "Filter by protein…",
	},
	{
		Path:              "/disease-causality",
		Title:             "Disease Causality",
		Description:       "Mendelian randomization results evaluating causal protein–disease links.",
		Placeholder:       "e.g. NT-proBNP, IL6…",
		Hint:              "Enter a protein name or gene symbol.",
		Type:              search.TypeProtein,
		FilterType:        search.TypeDisease,
		FilterPlaceholder: "Filter by disease…",
		Group:             "disease-causality",
	},
	{
		Path:        "/download",
		Title:       "Download",
		Description: "Search and download filtered results as CSV files for offline analysis.",
		Placeholder: "Search all data…",
		Hint:        "Search across all datasets and download the filtered results.",
		Download:    true,
	},
}

// explorer is the landing page search
var explorer = Section{
	Path:        "/",
	Title:       "Data Explorer",
	Description: "Multi-cohort results portal · Plasma proteomics · MRI phenotypes · Disease outcomes",
	Placeholder: "Search proteins, MRI traits or diseases…",
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

type typeOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageData is the model handed to every page template
type pageData struct {
	Title     string
	Nav       []navItem
	Section   Section
	Request   app.SearchRequest
	Types     []typeOption
	Groups    []dataset.Group
	Files     []string
	View      string
	Searched  bool
	Response  *app.SearchResponse
	Figures   *visualization.Figures
	Error     string
	TableURL  string
	FigureURL string
	ExportURL string
	Body      template.HTML
	Version   string
}

// Version is shown in the footer
const Version = "0.2.0"

func (s *Server) newPageData(c *gin.Context, title string) pageData {
	nav := []navItem{
		{Label: "Data Explorer", Href: "/"},
		{Label: "Proteomics", Href: "/proteomics"},
		{Label: "MRI Phenotypes", Href: "/mri-phenotypes"},
		{Label: "Disease Outcomes", Href: "/disease-outcomes"},
		{Label: "Disease Causality", Href: "/disease-causality"},
		{Label: "Download", Href: "/download"},
		{Label: "About", Href: "/about"},
	}
	for i := range nav {
		nav[i].Active = nav[i].Href == c.FullPath()
	}
	return pageData{Title: title, Nav: nav, Version: Version}
}

func (s *Server) handleHome(c *gin.Context) {
	s.renderSearchPage(c, explorer, "home.html")
}

func (s *Server) handleSection(sec Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderSearchPage(c, sec, "section.html")
	}
}

func (s *Server) handleAbout(c *gin.Context) {
	data := s.newPageData(c, "About")
	data.Body = s.aboutHTML
	s.renderTemplate(c, "about.html", data)
}

// renderSearchPage applies the section's fixed scope to the request, runs the
// search when a query was submitted and renders either the table or figure view
func (s *Server) renderSearchPage(c *gin.Context, sec Section, name string) {
	req := searchRequestFrom(c)
	if sec.Type != "" {
		req.Type = sec.Type
	}
	if sec.FilterType != "" {
		req.FilterType = sec.FilterType
	}
	if sec.Group != "" {
		req.Group = sec.Group
	}
	if req.Type == "" {
		req.Type = search.TypeAll
	}

	data := s.newPageData(c, sec.Title)
	data.Section = sec
	data.Request = req
	data.View = c.DefaultQuery("view", "table")
	if data.View != "figure" {
		data.View = "table"
	}
	data.Types = typeOptions(req.Type)
	data.Groups = s.service.Groups()
	data.Files = s.service.ListFiles(c.Request.Context())

	_, data.Searched = c.GetQuery("q")
	if data.Searched {
		resp, err := s.service.Search(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			data.Error = "Failed to perform search"
		} else {
			data.Response = resp
			if data.View == "figure" {
				figs := s.service.BuildFigures(resp.Results)
				data.Figures = &figs
			}
		}
		data.TableURL = pageURL(sec.Path, req, "table")
		data.FigureURL = pageURL(sec.Path, req, "figure")
		if sec.Download {
			data.ExportURL = exportURL(req, sec.Title)
		}
	}

	s.renderTemplate(c, name, data)
}

func typeOptions(selected string) []typeOption {
	tokens := []string{
		search.TypeAll, search.TypeProtein, search.TypeDisease, search.TypeMRI,
		search.TypeProteinDisease, search.TypeProteinMRI, search.TypeDiseaseMRI,
	}
	opts := make([]typeOption, len(tokens))
	for i, t := range tokens {
		opts[i] = typeOption{Value: t, Label: typeLabel(t), Selected: t == selected}
	}
	return opts
}

func requestValues(req app.SearchRequest) url.Values {
	v := url.Values{}
	v.Set("q", req.Query)
	if req.Type != "" {
		v.Set("type", req.Type)
	}
	if len(req.Files) > 0 {
		v.Set("files", strings.Join(req.Files, ","))
	}
	if req.Group != "" {
		v.Set("group", req.Group)
	}
	if req.Filter != "" {
		v.Set("filter", req.Filter)
	}
	if req.FilterType != "" {
		v.Set("filterType", req.FilterType)
	}
	return v
}

func pageURL(path string, req app.SearchRequest, view string) string {
	v := requestValues(req)
	v.Set("view", view)
	return path + "?" + v.Encode()
}

func exportURL(req app.SearchRequest, title string) string {
	v := requestValues(req)
	v.Set("title", title)
	return "/api/export?" + v.Encode()
}
