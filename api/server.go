package api

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/LearnWithDhruv/RAG-NEWS/articles"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/query"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

// RefreshFunc runs one full ingestion pass. The server guarantees at most
// one refresh is in flight at a time.
type RefreshFunc func(ctx context.Context) error

// Server holds the dependencies shared across controllers.
type Server struct {
	Sessions *session.Store
	Articles *articles.Store
	Index    index.Index
	Query    *query.Orchestrator
	Refresh  RefreshFunc

	refreshMu sync.Mutex
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterHealthRoutes(r, s)
	RegisterSessionRoutes(r, s)
	RegisterChatRoutes(r, s)
	RegisterNewsRoutes(r, s)
	RegisterIngestRoutes(r, s)
	return r
}
