package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"proteoportal/internal/visualization"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var funcMap = template.FuncMap{
	"formatCell": FormatCell,
	"forestPlot": layoutForest,
	"cellStyle": func(block visualization.HeatmapBlock, cell *visualization.HeatmapCell) template.CSS {
		return template.CSS("background: " + block.CellColor(cell))
	},
	"typeLabel": typeLabel,
	"add":       func(a, b int) int { return a + b },
}

// parseTemplates loads every page and partial under templates/ into one set
func parseTemplates(fsys fs.FS) (*template.Template, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	tmpl := template.New("").Funcs(funcMap)
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		name := file[len("templates/"):]
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	return tmpl, nil
}

// renderTemplate executes a template into a buffer so errors never leave a half-written page
func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[Template] rendering %s failed: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderMarkdown converts trusted embedded markdown to HTML
func renderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(md, p, r))
}
