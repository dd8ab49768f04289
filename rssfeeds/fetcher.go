package rssfeeds

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

// FetchFeed retrieves and parses one RSS/Atom feed, returning article
// records whose Content holds the feed-provided summary text. Full content
// extraction happens separately (ExtractAllContent).
func FetchFeed(ctx context.Context, feedURL string, maxCount int, timeout time.Duration) ([]*types.Article, error) {
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, fctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}

	count := min(len(feed.Items), maxCount)
	articles := make([]*types.Article, 0, count)

	for i := 0; i < count; i++ {
		item := feed.Items[i]

		published := item.Published
		if published == "" && item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		articles = append(articles, &types.Article{
			Title:         item.Title,
			URL:           item.Link,
			PublishedDate: published,
			Source:        feedURL,
			Content:       StripHTML(summary),
		})
	}

	return articles, nil
}

// FetchAll fetches every configured source in order. A failing source is
// logged and skipped; it never aborts the run. Ordinals are assigned in
// ingestion order across all sources.
func FetchAll(ctx context.Context, sources []string, maxPerSource int, timeout time.Duration) []*types.Article {
	var all []*types.Article
	for _, source := range sources {
		log.Printf("Fetching articles from source: %s", source)
		articles, err := FetchFeed(ctx, source, maxPerSource, timeout)
		if err != nil {
			log.Printf("Skipping source %s: %v", source, err)
			continue
		}
		if len(articles) == 0 {
			log.Printf("No entries found for source: %s", source)
			continue
		}
		all = append(all, articles...)
	}

	for i, a := range all {
		a.Ordinal = i
	}

	if len(all) == 0 {
		log.Println("No articles fetched from any source")
	} else {
		log.Printf("Total articles fetched: %d", len(all))
	}
	return all
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
