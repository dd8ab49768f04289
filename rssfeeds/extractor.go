package rssfeeds

import (
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

const extractorTimeout = 30 * time.Second

// ExtractAllContent fetches and extracts full article text using a worker
// pool, replacing the feed summary in Content when extraction succeeds.
// Failed extractions keep the summary text; extraction failure is never
// fatal to the batch.
func ExtractAllContent(articles []*types.Article, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	articleChan := make(chan *types.Article, len(articles))

	for i := 0; i < workers; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extractContent(article); err != nil {
					log.Printf("[Worker %d] Extraction failed for %s, keeping feed summary: %v", workerID, article.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

func extractContent(article *types.Article) error {
	if article.URL == "" {
		return errEmptyURL
	}

	extracted, err := readability.FromURL(article.URL, extractorTimeout)
	if err != nil {
		return err
	}

	if extracted.TextContent != "" {
		article.Content = extracted.TextContent
	}

	log.Printf("✓ Extracted: %s", article.Title)
	return nil
}
