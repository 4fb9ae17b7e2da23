package ui

import (
	"bytes"
	"net/http"
	"strconv"

	"proteoportal/app"
	"proteoportal/internal/errors"
	"proteoportal/internal/export"

	"github.com/gin-gonic/gin"
)

// searchRequestFrom reads the shared search parameters from the query string
func searchRequestFrom(c *gin.Context) app.SearchRequest {
	return app.SearchRequest{
		Query:      c.Query("q"),
		Type:       c.Query("type"),
		Files:      app.ParseFiles(c.Query("files")),
		Group:      c.Query("group"),
		Filter:     c.Query("filter"),
		FilterType: c.Query("filterType"),
	}
}

// statusFor maps an application error code to an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": s.service.ListFiles(c.Request.Context())})
}

func (s *Server) handleGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": s.service.Groups()})
}

func (s *Server) handleSearch(c *gin.Context) {
	resp, err := s.service.Search(c.Request.Context(), searchRequestFrom(c))
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to perform search",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFigures(c *gin.Context) {
	figs, err := s.service.Figures(c.Request.Context(), searchRequestFrom(c))
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build figures",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, figs)
}

// handleExport streams the narrowed rows as a CSV attachment named after the title parameter
func (s *Server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	n, err := s.service.Export(c.Request.Context(), searchRequestFrom(c), &buf)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to export results",
			"details": err.Error(),
		})
		return
	}

	filename := export.Filename(c.Query("title"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Total-Results", strconv.Itoa(n))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleValues(c *gin.Context) {
	values, err := s.service.UniqueValues(c.Request.Context(), searchRequestFrom(c), c.Query("column"))
	if err != nil {
		c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"column": c.Query("column"), "values": values})
}
