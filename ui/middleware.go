package ui

import (
	"io/fs"
	"net/http"
	"time"

	"proteoportal/internal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// setupMiddleware configures Gin middleware and the static file route
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(requestLogger(s.logger))

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		s.logger.Warn("[Static] static assets unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// requestID reuses an incoming X-Request-ID or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request once the handler chain has finished
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		reqLog := logger.With("request_id", c.GetString(requestIDKey))
		switch {
		case status >= http.StatusInternalServerError:
			reqLog.Error("[HTTP] %s %s -> %d (%.2fms) %s", c.Request.Method, path, status, elapsed, c.Errors.String())
		case status >= http.StatusBadRequest:
			reqLog.Warn("[HTTP] %s %s -> %d (%.2fms)", c.Request.Method, path, status, elapsed)
		default:
			reqLog.Debug("[HTTP] %s %s -> %d (%.2fms)", c.Request.Method, path, status, elapsed)
		}
	}
}
