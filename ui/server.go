package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"proteoportal/app"
	"proteoportal/internal"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static content/*.md
var embeddedFiles embed.FS

// Server represents the web server for the portal
type Server struct {
	router    *gin.Engine
	service   *app.PortalService
	templates *template.Template
	assets    fs.FS
	logger    *internal.Logger

	// aboutHTML is rendered once from content/about.md
	aboutHTML template.HTML
}

// NewServer creates a server over service with templates and static assets loaded
func NewServer(service *app.PortalService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		assets:  embeddedFiles,
		logger:  logger,
	}

	tmpl, err := parseTemplates(s.assets)
	if err != nil {
		return nil, err
	}
	s.templates = tmpl

	about, err := fs.ReadFile(s.assets, "content/about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about page: %w", err)
	}
	s.aboutHTML = renderMarkdown(about)

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)
	for _, sec := range sections {
		s.router.GET(sec.Path, s.handleSection(sec))
		for _, alias := range sec.Aliases {
			s.router.GET(alias, s.handleSection(sec))
		}
	}
	s.router.GET("/about", s.handleAbout)

	api := s.router.Group("/api")
	{
		api.GET("/files", s.handleFiles)
		api.GET("/groups", s.handleGroups)
		api.GET("/search", s.handleSearch)
		api.GET("/figures", s.handleFigures)
		api.GET("/export", s.handleExport)
		api.GET("/values", s.handleValues)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// Handler exposes the router, mostly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until the listener fails
func (s *Server) Start(addr string) error {
	s.logger.Info("[Server] Starting portal on http://%s", addr)
	return s.router.Run(addr)
}
