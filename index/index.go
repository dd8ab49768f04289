package index

import "context"

// Vector is one indexed entry: a chunk embedding plus the chunk text and
// display metadata. The ID is the chunk identity (url-chunkIndex), so
// re-ingesting the same article overwrites instead of duplicating.
type Vector struct {
	ID       string
	Values   []float32
	Document string
	Metadata map[string]interface{}
}

// Result is a single retrieval hit, ordered by similarity descending.
type Result struct {
	ID       string
	Document string
	Metadata map[string]interface{}
	Score    float32
}

// Index is the narrow vector-index contract consumed by the ingestion and
// query orchestrators.
//
// Rebuild deletes and recreates the collection; the window between delete
// and recreate is not atomic with respect to concurrent queries. Queries
// issued inside that window may fail or return nothing, and callers surface
// that as a temporary "index unavailable" condition rather than a fault.
// Epoch identifies the current collection generation; it changes on every
// rebuild so readers can detect they queried a stale generation.
type Index interface {
	Upsert(ctx context.Context, vectors []Vector) error
	Query(ctx context.Context, vector []float32, k int) ([]Result, error)
	Rebuild(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Epoch() string
}
