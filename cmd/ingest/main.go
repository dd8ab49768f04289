package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LearnWithDhruv/RAG-NEWS/articles"
	"github.com/LearnWithDhruv/RAG-NEWS/chunker"
	"github.com/LearnWithDhruv/RAG-NEWS/common"
	"github.com/LearnWithDhruv/RAG-NEWS/config"
	"github.com/LearnWithDhruv/RAG-NEWS/embeddings"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/ingest"
	"github.com/LearnWithDhruv/RAG-NEWS/rssfeeds"
)

// Exit codes: 0 when at least one article was indexed, 1 otherwise.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	log.Println("=== NEWS INGESTION ===")
	log.Printf("Sources: %v", cfg.Sources)

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

	var c chunker.Chunker
	if cfg.ChunkerPolicy == "fixed" {
		c = chunker.NewFixed(cfg.ChunkSize)
	} else {
		c = chunker.NewSentence(cfg.ChunkSize)
	}

	pipeline := &ingest.Pipeline{
		Index:    idx,
		Meta:     articles.NewStore(rdb),
		Embedder: embedder,
		Chunker:  c,
		Archiver: newArchiver(ctx, cfg),
	}

	fetched := rssfeeds.FetchAll(ctx, cfg.Sources, cfg.MaxArticlesPerSource, cfg.FeedTimeout)

	log.Printf("Extracting full content using %d workers...", config.DefaultExtractionWorkers)
	rssfeeds.ExtractAllContent(fetched, config.DefaultExtractionWorkers)

	if _, err := pipeline.Run(ctx, fetched); err != nil {
		if errors.Is(err, ingest.ErrNoArticlesIndexed) {
			log.Println("Ingestion failed: no articles were indexed")
		} else {
			log.Printf("Ingestion failed: %v", err)
		}
		os.Exit(1)
	}
}

// newArchiver returns the optional S3 archiver, or nil when S3_BUCKET is
// not configured or the client cannot be built.
func newArchiver(ctx context.Context, cfg config.Config) ingest.Archiver {
	if cfg.S3Bucket == "" {
		return nil
	}

	client, err := common.NewS3(ctx, common.S3Config{
		Region:       cfg.S3Region,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archiving disabled)", err)
		return nil
	}

	prefix := cfg.S3Prefix
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return ingest.NewS3Archive(client, cfg.S3Bucket, prefix)
}
