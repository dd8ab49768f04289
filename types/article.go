package types

import (
	"fmt"
	"strings"
)

// Article represents a single fetched news article with extracted content.
// Articles are immutable once produced by the fetcher; the ingestion
// pipeline derives chunks from Content and never writes back.
type Article struct {
	Ordinal       int    `json:"ordinal"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	Source        string `json:"source"`
	Content       string `json:"content"`
}

// Validate reports whether the article carries the fields required for
// indexing. Articles failing validation are rejected (counted, not fatal).
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article missing title (url=%q)", a.URL)
	}
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("article missing url (title=%q)", a.Title)
	}
	return nil
}

// ChunkID builds the stable identity for a chunk of the given article.
// The (url, chunk index) pair is unique and survives re-ingestion, so
// re-indexing an unchanged article overwrites instead of duplicating.
func ChunkID(url string, chunkIndex int) string {
	return fmt.Sprintf("%s-%d", url, chunkIndex)
}

// FeedResult is the top-level wrapper for JSON output of a fetch run.
type FeedResult struct {
	Sources      []string   `json:"sources"`
	ArticleCount int        `json:"article_count"`
	Articles     []*Article `json:"articles"`
}
