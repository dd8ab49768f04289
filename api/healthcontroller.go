package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the health check endpoint.
func RegisterHealthRoutes(r *gin.Engine, s *Server) {
	r.GET("/api/health", s.handleHealth)
}

// handleHealth reports liveness plus the current index generation and size.
func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if s.Index != nil {
		resp["epoch"] = s.Index.Epoch()
		if count, err := s.Index.Count(c.Request.Context()); err == nil {
			resp["indexed_chunks"] = count
		}
	}
	c.JSON(http.StatusOK, resp)
}
