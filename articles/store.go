package articles

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

const keyPrefix = "article:"

// Meta is the lightweight article record persisted for auditing and
// display. It is independent of the vector index: there is no transaction
// tying the two stores together, by design.
type Meta struct {
	Ordinal       int    `json:"ordinal"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	Source        string `json:"source"`
	ChunkCount    int    `json:"chunk_count"`
}

// Store keeps article metadata in Redis hashes keyed by ingestion ordinal.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// MetaFromArticle builds the stored record for a validated article.
func MetaFromArticle(a *types.Article, chunkCount int) Meta {
	return Meta{
		Ordinal:       a.Ordinal,
		Title:         a.Title,
		URL:           a.URL,
		PublishedDate: a.PublishedDate,
		Source:        a.Source,
		ChunkCount:    chunkCount,
	}
}

// Save writes the record under article:{ordinal}, overwriting any previous
// run's entry for the same ordinal.
func (s *Store) Save(ctx context.Context, meta Meta) error {
	key := keyPrefix + strconv.Itoa(meta.Ordinal)
	fields := map[string]interface{}{
		"title":          meta.Title,
		"url":            meta.URL,
		"published_date": meta.PublishedDate,
		"source":         meta.Source,
		"chunk_count":    strconv.Itoa(meta.ChunkCount),
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to store article metadata %s: %w", key, err)
	}
	return nil
}

// Get returns the record for the given ordinal, or nil when absent.
func (s *Store) Get(ctx context.Context, ordinal int) (*Meta, error) {
	key := keyPrefix + strconv.Itoa(ordinal)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read article metadata %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	meta := &Meta{
		Ordinal:       ordinal,
		Title:         fields["title"],
		URL:           fields["url"],
		PublishedDate: fields["published_date"],
		Source:        fields["source"],
	}
	if n, err := strconv.Atoi(fields["chunk_count"]); err == nil {
		meta.ChunkCount = n
	}
	return meta, nil
}

// Recent returns up to n records ordered by ordinal descending.
func (s *Store) Recent(ctx context.Context, n int) ([]Meta, error) {
	ordinals, err := s.ordinals(ctx)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordinals)))
	if len(ordinals) > n {
		ordinals = ordinals[:n]
	}

	metas := make([]Meta, 0, len(ordinals))
	for _, ord := range ordinals {
		meta, err := s.Get(ctx, ord)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			metas = append(metas, *meta)
		}
	}
	return metas, nil
}

// Clear removes all article records. Scoped to the article:* keyspace so
// sessions sharing the same Redis database are untouched.
func (s *Store) Clear(ctx context.Context) error {
	ordinals, err := s.ordinals(ctx)
	if err != nil {
		return err
	}
	for _, ord := range ordinals {
		if err := s.client.Del(ctx, keyPrefix+strconv.Itoa(ord)).Err(); err != nil {
			return fmt.Errorf("failed to delete article metadata: %w", err)
		}
	}
	return nil
}

func (s *Store) ordinals(ctx context.Context) ([]int, error) {
	var ordinals []int
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw := strings.TrimPrefix(iter.Val(), keyPrefix)
		if ord, err := strconv.Atoi(raw); err == nil {
			ordinals = append(ordinals, ord)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan article keys: %w", err)
	}
	return ordinals, nil
}
