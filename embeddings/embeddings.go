package embeddings

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"strings"
	"time"

	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Provider abstracts a text->embedding generator with a fixed output
// dimension. EmbedTexts is used for documents during ingestion; EmbedQuery
// produces a query-side embedding for retrieval. A failed or empty
// embedding is a soft failure for that unit of work: callers skip, log and
// continue rather than aborting the run.
type Provider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// NewFromEnv returns an embeddings provider selected via environment.
// Cohere is preferred when COHERE_API_KEY is set, falling back to the
// OpenAI embeddings API when OPENAI_API_KEY is set. Returns nil when no
// provider is configured.
func NewFromEnv(preferredModel string) Provider {
	if cohereKey := os.Getenv("COHERE_API_KEY"); cohereKey != "" {
		model := preferredModel
		if model == "" || !strings.HasPrefix(model, "embed-") {
			model = "embed-english-v3.0"
		}
		// Force HTTP/1.1 to avoid HTTP/2 protocol errors observed with the
		// Cohere endpoint.
		httpClient := &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
				ForceAttemptHTTP2: false,
			},
		}
		client := cohereclient.NewClient(
			cohereclient.WithToken(cohereKey),
			cohereclient.WithHTTPClient(httpClient),
		)
		return &Cohere{client: client, model: model}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		model := preferredModel
		if model == "" {
			model = "text-embedding-3-small"
		}
		return &OpenAI{apiKey: apiKey, model: model}
	}

	return nil
}
