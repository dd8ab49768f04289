package rssfeeds

import (
	"errors"
	"html"
	"regexp"
	"strings"
)

var errEmptyURL = errors.New("article URL is empty")

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from feed-provided summaries so only plain text
// reaches the chunker.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := tagRe.ReplaceAllString(s, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
