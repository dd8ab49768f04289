package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LearnWithDhruv/RAG-NEWS/query"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

// RegisterChatRoutes registers the question/answer endpoint.
func RegisterChatRoutes(r *gin.Engine, s *Server) {
	r.POST("/api/chat", s.handleChat)
}

// ChatRequest is the incoming question payload.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question"`
}

// handleChat runs one retrieval turn. Turn failures map to distinct
// user-safe messages; raw upstream errors never reach the client.
func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.Query.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		// An empty retrieval is a normal answer, not a fault.
		if errors.Is(err, query.ErrNoRelevantContent) {
			c.JSON(http.StatusOK, gin.H{"text": query.UserMessage(err), "sources": []query.Source{}})
			return
		}
		c.JSON(chatStatus(err), gin.H{"error": query.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, answer)
}

// chatStatus picks the HTTP status for a turn failure.
func chatStatus(err error) int {
	switch {
	case errors.Is(err, query.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, query.ErrIndexUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, query.ErrGenerationTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
