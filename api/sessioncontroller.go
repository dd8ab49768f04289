package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

// RegisterSessionRoutes registers conversation session endpoints.
func RegisterSessionRoutes(r *gin.Engine, s *Server) {
	r.POST("/api/session", s.handleCreateSession)
	r.GET("/api/session/:id", s.handleGetSession)
	r.DELETE("/api/session/:id", s.handleDeleteSession)
}

// handleCreateSession starts a new empty conversation.
func (s *Server) handleCreateSession(c *gin.Context) {
	id, err := s.Sessions.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// handleGetSession returns the full conversation log for a session.
func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// handleDeleteSession removes a session. Deleting an absent session is 404.
func (s *Server) handleDeleteSession(c *gin.Context) {
	existed, err := s.Sessions.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
