package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LearnWithDhruv/RAG-NEWS/config"
	"github.com/LearnWithDhruv/RAG-NEWS/embeddings"
	"github.com/LearnWithDhruv/RAG-NEWS/generation"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/query"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

func main() {
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
	if count, err := idx.Count(ctx); err == nil {
		log.Printf("Index ready: %d chunks (epoch %s)", count, idx.Epoch())
	}

	embedder := embeddings.NewFromEnv(os.Getenv("EMBEDDING_MODEL"))
	if embedder == nil {
		log.Fatal("No embeddings provider configured: set COHERE_API_KEY or OPENAI_API_KEY")
	}

	generator, err := generation.NewCohereFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize chat client: %v", err)
	}

	sessions := session.NewStore(session.NewRedisKV(rdb), cfg.SessionTTL)
	orchestrator := &query.Orchestrator{
		Embedder:      embedder,
		Index:         idx,
		Sessions:      sessions,
		Generator:     generator,
		TopK:          cfg.TopK,
		Timeout:       cfg.GenerationTimeout,
		HistoryWindow: cfg.HistoryWindow,
	}

	sessionID, err := sessions.Create(ctx)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	fmt.Println("News Q&A. Ask about the latest indexed articles.")
	fmt.Println("Commands: 'history' shows the conversation, 'exit' or 'quit' leaves.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		case "history":
			printHistory(ctx, sessions, sessionID)
			continue
		case "":
			continue
		}

		answer, err := orchestrator.Ask(ctx, sessionID, line)
		if err != nil {
			fmt.Println(query.UserMessage(err))
			continue
		}

		fmt.Println()
		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, src := range answer.Sources {
				fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
			}
		}
		fmt.Println()
	}
}

func printHistory(ctx context.Context, sessions *session.Store, id string) {
	sess, err := sessions.Get(ctx, id)
	if err != nil {
		fmt.Println("No history available.")
		return
	}
	if len(sess.Messages) == 0 {
		fmt.Println("No messages yet.")
		return
	}
	for _, m := range sess.Messages {
		fmt.Printf("[%s] %s\n", m.Role, m.Text)
	}
}
