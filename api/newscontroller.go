package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultNewsLimit = 20

// RegisterNewsRoutes registers the indexed-article listing endpoint.
func RegisterNewsRoutes(r *gin.Engine, s *Server) {
	r.GET("/api/news", s.handleListNews)
}

// handleListNews returns the most recently ingested article metadata.
func (s *Server) handleListNews(c *gin.Context) {
	limit := defaultNewsLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	metas, err := s.Articles.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(metas), "articles": metas})
}
