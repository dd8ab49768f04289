package index

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

// fakeChromaServer simulates the subset of the Chroma v2 REST API the
// wrapper depends on: collection get/create/delete, upsert, query, count.
type fakeChromaServer struct {
	collections map[string]*fakeCollection // keyed by name
	byID        map[string]*fakeCollection
	nextID      int
}

type fakeCollection struct {
	id       string
	name     string
	metadata map[string]interface{}
	docs     map[string]fakeDoc
}

type fakeDoc struct {
	embedding []float32
	document  string
	metadata  map[string]interface{}
}

func newFakeChromaServer() *fakeChromaServer {
	return &fakeChromaServer{
		collections: make(map[string]*fakeCollection),
		byID:        make(map[string]*fakeCollection),
	}
}

func (f *fakeChromaServer) handler() http.Handler {
	prefix := "/api/v2/tenants/default_tenant/databases/default_database/collections"
	mux := http.NewServeMux()

	mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Name     string                 `json:"name"`
			Metadata map[string]interface{} `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nextID++
		col := &fakeCollection{
			id:       fmt.Sprintf("col-%d", f.nextID),
			name:     req.Name,
			metadata: req.Metadata,
			docs:     make(map[string]fakeDoc),
		}
		f.collections[req.Name] = col
		f.byID[col.id] = col
		json.NewEncoder(w).Encode(map[string]interface{}{"id": col.id, "metadata": col.metadata})
	})

	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, prefix+"/")
		parts := strings.SplitN(rest, "/", 2)
		key := parts[0]

		if len(parts) == 1 {
			switch r.Method {
			case http.MethodGet:
				col, ok := f.collections[key]
				if !ok {
					http.Error(w, "collection not found", http.StatusNotFound)
					return
				}
				json.NewEncoder(w).Encode(map[string]interface{}{"id": col.id, "metadata": col.metadata})
			case http.MethodDelete:
				col, ok := f.collections[key]
				if !ok {
					http.Error(w, "collection not found", http.StatusNotFound)
					return
				}
				delete(f.collections, key)
				delete(f.byID, col.id)
				w.WriteHeader(http.StatusOK)
			default:
				http.NotFound(w, r)
			}
			return
		}

		col, ok := f.byID[key]
		if !ok {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "upsert":
			var req struct {
				IDs        []string                 `json:"ids"`
				Embeddings [][]float32              `json:"embeddings"`
				Documents  []string                 `json:"documents"`
				Metadatas  []map[string]interface{} `json:"metadatas"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for i, id := range req.IDs {
				col.docs[id] = fakeDoc{
					embedding: req.Embeddings[i],
					document:  req.Documents[i],
					metadata:  req.Metadatas[i],
				}
			}
			w.WriteHeader(http.StatusOK)
		case "query":
			var req struct {
				QueryEmbeddings [][]float32 `json:"query_embeddings"`
				NResults        int         `json:"n_results"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			type hit struct {
				id       string
				distance float32
				doc      fakeDoc
			}
			var hits []hit
			for id, doc := range col.docs {
				hits = append(hits, hit{id: id, distance: 1 - dot(req.QueryEmbeddings[0], doc.embedding), doc: doc})
			}
			sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
			if len(hits) > req.NResults {
				hits = hits[:req.NResults]
			}
			resp := queryResponse{
				IDs:       [][]string{{}},
				Distances: [][]float32{{}},
				Metadatas: [][]map[string]interface{}{{}},
				Documents: [][]string{{}},
			}
			for _, h := range hits {
				resp.IDs[0] = append(resp.IDs[0], h.id)
				resp.Distances[0] = append(resp.Distances[0], h.distance)
				resp.Metadatas[0] = append(resp.Metadatas[0], h.doc.metadata)
				resp.Documents[0] = append(resp.Documents[0], h.doc.document)
			}
			json.NewEncoder(w).Encode(resp)
		case "count":
			json.NewEncoder(w).Encode(len(col.docs))
		default:
			http.NotFound(w, r)
		}
	})

	return mux
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		if i < len(b) {
			sum += a[i] * b[i]
		}
	}
	return sum
}

func newTestChroma(t *testing.T) (*Chroma, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(newFakeChromaServer().handler())
	t.Cleanup(srv.Close)

	c := &Chroma{
		baseURL:        srv.URL + "/api/v2",
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: "test_articles",
		httpClient:     srv.Client(),
	}
	if err := c.getOrCreateCollection(context.Background()); err != nil {
		t.Fatalf("getOrCreateCollection: %v", err)
	}
	return c, srv
}

func TestRebuildCreatesFreshEpoch(t *testing.T) {
	c, _ := newTestChroma(t)
	ctx := context.Background()

	first := c.Epoch()
	if first == "" {
		t.Fatal("expected an epoch after collection creation")
	}

	if err := c.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if c.Epoch() == "" || c.Epoch() == first {
		t.Fatalf("expected a new epoch after rebuild; got %q (was %q)", c.Epoch(), first)
	}
}

func TestRebuildMissingCollectionIsSuccess(t *testing.T) {
	_, srv := newTestChroma(t)
	ctx := context.Background()

	// A collection that has never been created: the delete half of the
	// rebuild sees 404 and must treat it as success.
	c := &Chroma{
		baseURL:        srv.URL + "/api/v2",
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: "never_created",
		httpClient:     srv.Client(),
	}
	if err := c.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild of a missing collection should succeed: %v", err)
	}
	if c.Epoch() == "" {
		t.Fatal("expected an epoch after rebuild")
	}
}

func TestQueryAfterRebuildReturnsEmpty(t *testing.T) {
	c, _ := newTestChroma(t)
	ctx := context.Background()

	if err := c.Upsert(ctx, []Vector{{ID: "a-0", Values: []float32{1, 0}, Document: "old text"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := c.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	results, err := c.Query(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query after rebuild should not error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Query after rebuild returned stale data: %+v", results)
	}
}

func TestUpsertOverwritesByID(t *testing.T) {
	c, _ := newTestChroma(t)
	ctx := context.Background()

	v := Vector{ID: "https://example.com/a-0", Values: []float32{1, 0}, Document: "first version"}
	if err := c.Upsert(ctx, []Vector{v}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	v.Document = "second version"
	if err := c.Upsert(ctx, []Vector{v}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	count, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry after duplicate upsert, got %d", count)
	}

	results, err := c.Query(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Document != "second version" {
		t.Fatalf("expected latest document text, got %+v", results)
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	c, _ := newTestChroma(t)
	ctx := context.Background()

	vectors := []Vector{
		{ID: "far-0", Values: []float32{0, 1}, Document: "far"},
		{ID: "near-0", Values: []float32{1, 0}, Document: "near"},
	}
	if err := c.Upsert(ctx, vectors); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := c.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "near-0" {
		t.Fatalf("expected nearest vector first, got %q", results[0].ID)
	}
	if results[0].Score < results[1].Score {
		t.Fatalf("results not ordered by similarity descending: %v vs %v", results[0].Score, results[1].Score)
	}
}
