package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// Chroma wraps the Chroma vector database v2 REST API as an Index.
// Embeddings are always supplied client-side, as required by the v2 API.
type Chroma struct {
	baseURL        string
	tenant         string
	database       string
	collectionName string
	httpClient     *http.Client

	mu           sync.RWMutex
	collectionID string
	epoch        string
}

// ChromaConfig holds connection settings for a Chroma server.
type ChromaConfig struct {
	Host           string
	Port           int
	CollectionName string
}

// queryResponse mirrors the Chroma /query response shape (one inner slice
// per query embedding; we always send exactly one).
type queryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Distances [][]float32                `json:"distances"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Documents [][]string                 `json:"documents"`
}

// NewChroma connects to Chroma and gets or creates the configured
// collection. Existing collections keep their recorded epoch.
func NewChroma(ctx context.Context, config ChromaConfig) (*Chroma, error) {
	c := &Chroma{
		baseURL:        fmt.Sprintf("http://%s:%d/api/v2", config.Host, config.Port),
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: config.CollectionName,
		httpClient:     &http.Client{},
	}

	if err := c.getOrCreateCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}
	return c, nil
}

// Epoch returns the current collection generation id. Empty when the
// collection predates epoch tracking or is mid-rebuild.
func (c *Chroma) Epoch() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

func (c *Chroma) collectionsURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
}

func (c *Chroma) collectionURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("%s/%s", c.collectionsURL(), c.collectionID)
}

func (c *Chroma) getOrCreateCollection(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", c.collectionsURL(), c.collectionName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err == nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()
		var result struct {
			ID       string                 `json:"id"`
			Metadata map[string]interface{} `json:"metadata"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return err
		}
		c.mu.Lock()
		c.collectionID = result.ID
		if epoch, ok := result.Metadata["epoch"].(string); ok {
			c.epoch = epoch
		}
		c.mu.Unlock()
		log.Printf("Using existing collection: %s", c.collectionName)
		return nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	return c.createCollection(ctx)
}

func (c *Chroma) createCollection(ctx context.Context) error {
	epoch := uuid.New().String()
	payload := map[string]interface{}{
		"name": c.collectionName,
		"metadata": map[string]interface{}{
			"description": "news article chunks for retrieval",
			"epoch":       epoch,
		},
		"get_or_create": true,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, c.collectionsURL(), payload, &result); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	c.mu.Lock()
	c.collectionID = result.ID
	c.epoch = epoch
	c.mu.Unlock()

	log.Printf("Created collection %s (epoch %s)", c.collectionName, epoch)
	return nil
}

// Rebuild deletes the collection if present (a missing collection is
// success, not an error) and recreates it empty under a fresh epoch.
// Queries racing the delete/recreate window may fail or see an empty
// collection; that consistency gap is part of the contract.
func (c *Chroma) Rebuild(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", c.collectionsURL(), c.collectionName)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		// Not found means there was nothing to delete.
	default:
		return fmt.Errorf("failed to delete collection (status %d): %s", resp.StatusCode, string(body))
	}

	c.mu.Lock()
	c.collectionID = ""
	c.epoch = ""
	c.mu.Unlock()

	return c.createCollection(ctx)
}

// Upsert writes the batch into the collection; existing ids are
// overwritten.
func (c *Chroma) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	ids := make([]string, len(vectors))
	embeddings := make([][]float32, len(vectors))
	documents := make([]string, len(vectors))
	metadatas := make([]map[string]interface{}, len(vectors))
	for i, v := range vectors {
		ids[i] = v.ID
		embeddings[i] = v.Values
		documents[i] = v.Document
		metadatas[i] = v.Metadata
	}

	payload := map[string]interface{}{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	if err := c.post(ctx, fmt.Sprintf("%s/upsert", c.collectionURL()), payload, nil); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// Query returns up to k nearest neighbours ordered by similarity
// descending. Cosine distance from Chroma is converted to similarity.
func (c *Chroma) Query(ctx context.Context, vector []float32, k int) ([]Result, error) {
	payload := map[string]interface{}{
		"query_embeddings": [][]float32{vector},
		"n_results":        k,
		"include":          []string{"metadatas", "documents", "distances"},
	}

	var parsed queryResponse
	if err := c.post(ctx, fmt.Sprintf("%s/query", c.collectionURL()), payload, &parsed); err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(parsed.IDs[0]))
	for i, id := range parsed.IDs[0] {
		r := Result{ID: id}
		if len(parsed.Documents) > 0 && len(parsed.Documents[0]) > i {
			r.Document = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && len(parsed.Metadatas[0]) > i {
			r.Metadata = parsed.Metadatas[0][i]
		}
		if len(parsed.Distances) > 0 && len(parsed.Distances[0]) > i {
			r.Score = 1.0 - parsed.Distances[0][i]
		}
		results = append(results, r)
	}
	return results, nil
}

// Count returns the number of vectors in the collection.
func (c *Chroma) Count(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/count", c.collectionURL()), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to count vectors: %s", string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Chroma) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
