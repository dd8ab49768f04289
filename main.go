package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LearnWithDhruv/RAG-NEWS/api"
	"github.com/LearnWithDhruv/RAG-NEWS/articles"
	"github.com/LearnWithDhruv/RAG-NEWS/chunker"
	"github.com/LearnWithDhruv/RAG-NEWS/config"
	"github.com/LearnWithDhruv/RAG-NEWS/embeddings"
	"github.com/LearnWithDhruv/RAG-NEWS/generation"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/ingest"
	"github.com/LearnWithDhruv/RAG-NEWS/query"
	"github.com/LearnWithDhruv/RAG-NEWS/rssfeeds"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}

	idx, err := index.NewChroma(ctx, index.ChromaConfig{
		Host:           cfg.ChromaHost,
		Port:           cfg.ChromaPort,
		CollectionName: cfg.CollectionName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Chroma: %v", err)
	}

	embedder := embeddings.NewFromEnv(os.Getenv("EMBEDDING_MODEL"))
	if embedder == nil {
		log.Fatal("No embeddings provider configured: set COHERE_API_KEY or OPENAI_API_KEY")
	}
	log.Printf("Using embedding model: %s", embedder.ModelName())

	generator, err := generation.NewCohereFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize chat client: %v", err)
	}

	sessions := session.NewStore(session.NewRedisKV(rdb), cfg.SessionTTL)
	articleStore := articles.NewStore(rdb)

	orchestrator := &query.Orchestrator{
		Embedder:      embedder,
		Index:         idx,
		Sessions:      sessions,
		Generator:     generator,
		TopK:          cfg.TopK,
		Timeout:       cfg.GenerationTimeout,
		HistoryWindow: cfg.HistoryWindow,
	}

	pipeline := &ingest.Pipeline{
		Index:    idx,
		Meta:     articleStore,
		Embedder: embedder,
		Chunker:  newChunker(cfg),
	}

	server := &api.Server{
		Sessions: sessions,
		Articles: articleStore,
		Index:    idx,
		Query:    orchestrator,
		Refresh: func(ctx context.Context) error {
			fetched := rssfeeds.FetchAll(ctx, cfg.Sources, cfg.MaxArticlesPerSource, cfg.FeedTimeout)
			rssfeeds.ExtractAllContent(fetched, config.DefaultExtractionWorkers)
			_, err := pipeline.Run(ctx, fetched)
			return err
		},
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(server)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /api/health")
	log.Println("  POST   /api/session")
	log.Println("  GET    /api/session/:id")
	log.Println("  DELETE /api/session/:id")
	log.Println("  POST   /api/chat")
	log.Println("  GET    /api/news")
	log.Println("  POST   /api/ingest/refresh")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newChunker(cfg config.Config) chunker.Chunker {
	if cfg.ChunkerPolicy == "fixed" {
		return chunker.NewFixed(cfg.ChunkSize)
	}
	return chunker.NewSentence(cfg.ChunkSize)
}
