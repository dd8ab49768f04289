package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterIngestRoutes registers the index refresh endpoint.
func RegisterIngestRoutes(r *gin.Engine, s *Server) {
	r.POST("/api/ingest/refresh", s.handleRefresh)
}

// handleRefresh kicks off a full re-ingestion in the background. The index
// has a single logical writer, so a second refresh while one is running is
// rejected with 409.
func (s *Server) handleRefresh(c *gin.Context) {
	if s.Refresh == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "refresh is not configured"})
		return
	}
	if !s.refreshMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a refresh is already in progress"})
		return
	}

	go func() {
		defer s.refreshMu.Unlock()
		if err := s.Refresh(context.Background()); err != nil {
			log.Printf("Background refresh failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}
