package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const defaultChatModel = "command-r-08-2024"

const preamble = "You are a news assistant. Answer the user's question using only the provided context. " +
	"If you don't know the answer, say you don't know based on current news."

// Cohere implements Client using the Cohere Chat API.
type Cohere struct {
	client *cohereclient.Client
	model  string
}

// NewCohereFromEnv builds a Cohere chat client from COHERE_API_KEY and the
// optional COHERE_CHAT_MODEL override.
func NewCohereFromEnv() (*Cohere, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY not set")
	}
	model := os.Getenv("COHERE_CHAT_MODEL")
	if model == "" {
		model = defaultChatModel
	}
	return &Cohere{
		client: cohereclient.NewClient(cohereclient.WithToken(apiKey)),
		model:  model,
	}, nil
}

// Generate sends the question plus assembled context as a single chat
// message. The caller's ctx carries the enforced timeout.
func (c *Cohere) Generate(ctx context.Context, question, contextText string) (string, error) {
	prompt := fmt.Sprintf("Question: %s\n\nContext:\n%s\n\nAnswer the question based on the provided context in a concise manner.",
		question, contextText)

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  prompt,
		Model:    &c.model,
		Preamble: stringPtr(preamble),
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return strings.TrimSpace(resp.Text), nil
}

func stringPtr(s string) *string { return &s }
