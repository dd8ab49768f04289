package ingest

import (
	"context"
	"errors"
	"log"

	"github.com/LearnWithDhruv/RAG-NEWS/articles"
	"github.com/LearnWithDhruv/RAG-NEWS/chunker"
	"github.com/LearnWithDhruv/RAG-NEWS/embeddings"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

// ErrNoArticlesIndexed reports a run in which not a single article made it
// into the index. Partial success is a normal outcome; total failure is
// the only condition that fails the run.
var ErrNoArticlesIndexed = errors.New("no articles were successfully indexed")

// MetadataStore is the article-metadata surface the pipeline writes to.
// The vector index and this store are independently consistent: there is
// no cross-store transaction, and a metadata write can survive an article
// whose chunks all fail to embed.
type MetadataStore interface {
	Save(ctx context.Context, meta articles.Meta) error
	Clear(ctx context.Context) error
}

// Archiver optionally persists raw article JSON outside the index.
type Archiver interface {
	ArchiveArticle(ctx context.Context, a *types.Article) error
}

// Summary aggregates per-run counters. Every unit of work lands in exactly
// one counter; failures never abort the iteration that produced them.
type Summary struct {
	Fetched       int `json:"fetched"`
	Indexed       int `json:"indexed"`
	Rejected      int `json:"rejected"`
	ChunksStored  int `json:"chunks_stored"`
	ChunksSkipped int `json:"chunks_skipped"`
}

// Pipeline drives one ingestion run: rebuild the collection, then chunk,
// embed and upsert every fetched article.
//
// The pipeline is a single logical writer. It is not safe to run two
// ingestions against the same collection concurrently; callers hold a run
// lock around Run.
type Pipeline struct {
	Index    index.Index
	Meta     MetadataStore
	Embedder embeddings.Provider
	Chunker  chunker.Chunker
	Archiver Archiver // optional
}

// Run executes the full ingestion pass over the fetched articles and
// returns the aggregated counters. The returned error is non-nil only when
// the index rebuild itself fails or zero articles were indexed.
func (p *Pipeline) Run(ctx context.Context, fetched []*types.Article) (*Summary, error) {
	summary := &Summary{Fetched: len(fetched)}

	log.Println("Rebuilding vector collection...")
	if err := p.Index.Rebuild(ctx); err != nil {
		return summary, err
	}
	log.Printf("Collection rebuilt (epoch %s)", p.Index.Epoch())

	if err := p.Meta.Clear(ctx); err != nil {
		// Stale metadata is an auditing wart, not a reason to abort the run.
		log.Printf("Warning: failed to clear article metadata: %v", err)
	}

	for i, article := range fetched {
		log.Printf("=== Processing article %d/%d: %.50s ===", i+1, len(fetched), article.Title)
		stored, skipped := p.processArticle(ctx, article)
		summary.ChunksStored += stored
		summary.ChunksSkipped += skipped
		if stored > 0 {
			summary.Indexed++
		} else {
			summary.Rejected++
		}
	}

	log.Println("=== INGESTION COMPLETE ===")
	log.Printf("Total articles fetched: %d", summary.Fetched)
	log.Printf("Successfully indexed:   %d", summary.Indexed)
	log.Printf("Rejected/failed:        %d", summary.Rejected)
	log.Printf("Chunks stored:          %d", summary.ChunksStored)
	log.Printf("Chunks skipped:         %d", summary.ChunksSkipped)

	if summary.Indexed == 0 {
		return summary, ErrNoArticlesIndexed
	}
	return summary, nil
}

// processArticle handles one article end-to-end, returning the number of
// chunks stored and skipped. Any failure is contained to this article.
func (p *Pipeline) processArticle(ctx context.Context, article *types.Article) (stored, skipped int) {
	if err := article.Validate(); err != nil {
		log.Printf("Rejecting article %d: %v", article.Ordinal, err)
		return 0, 0
	}

	chunks := p.Chunker.Split(article.Content)
	if len(chunks) == 0 {
		log.Printf("Rejecting article %d (%s): no chunks produced", article.Ordinal, article.URL)
		return 0, 0
	}

	if err := p.Meta.Save(ctx, articles.MetaFromArticle(article, len(chunks))); err != nil {
		log.Printf("Failed to store metadata for article %d: %v", article.Ordinal, err)
		return 0, 0
	}

	for chunkIdx, chunk := range chunks {
		if p.storeChunk(ctx, article, chunkIdx, chunk) {
			stored++
		} else {
			skipped++
		}
	}

	if stored == 0 {
		log.Printf("No chunks successfully stored for article %d: %s", article.Ordinal, article.Title)
		return stored, skipped
	}

	log.Printf("Stored %d/%d chunks for article %d: %s", stored, len(chunks), article.Ordinal, article.Title)

	if p.Archiver != nil {
		if err := p.Archiver.ArchiveArticle(ctx, article); err != nil {
			log.Printf("Warning: archive failed for article %d: %v", article.Ordinal, err)
		}
	}
	return stored, skipped
}

// storeChunk embeds and upserts one chunk. A failed embedding or upsert
// skips this chunk only.
func (p *Pipeline) storeChunk(ctx context.Context, article *types.Article, chunkIdx int, chunk string) bool {
	vecs, err := p.Embedder.EmbedTexts(ctx, []string{chunk})
	if err != nil || len(vecs) == 0 || len(vecs[0]) == 0 {
		log.Printf("Embedding failed for chunk %d of article %d: %v", chunkIdx, article.Ordinal, err)
		return false
	}

	vector := index.Vector{
		ID:       types.ChunkID(article.URL, chunkIdx),
		Values:   vecs[0],
		Document: chunk,
		Metadata: map[string]interface{}{
			"title":          article.Title,
			"url":            article.URL,
			"published_date": article.PublishedDate,
			"chunk_index":    chunkIdx,
			"article_index":  article.Ordinal,
		},
	}
	if err := p.Index.Upsert(ctx, []index.Vector{vector}); err != nil {
		log.Printf("Upsert failed for chunk %d of article %d: %v", chunkIdx, article.Ordinal, err)
		return false
	}
	return true
}
