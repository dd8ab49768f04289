package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LearnWithDhruv/RAG-NEWS/embeddings"
	"github.com/LearnWithDhruv/RAG-NEWS/generation"
	"github.com/LearnWithDhruv/RAG-NEWS/index"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
)

// Failure categories for one question/answer turn. Each maps to its own
// user-facing message via UserMessage, so callers never leak raw upstream
// errors to users.
var (
	ErrEmptyQuestion      = errors.New("question is empty")
	ErrContextUnavailable = errors.New("could not embed question")
	ErrNoRelevantContent  = errors.New("no relevant articles found")
	ErrIndexUnavailable   = errors.New("vector index unavailable")
	ErrGenerationTimeout  = errors.New("generation timed out")
	ErrGenerationFailed   = errors.New("generation failed")
)

// Source identifies one article an answer drew from.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is the result of one successful turn.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
	Epoch   string   `json:"epoch"`
}

// Orchestrator runs the per-turn retrieval pipeline: embed the question,
// query the index, assemble the prompt with recent history, generate under
// a deadline and persist the completed turn.
type Orchestrator struct {
	Embedder  embeddings.Provider
	Index     index.Index
	Sessions  *session.Store
	Generator generation.Client

	TopK          int
	Timeout       time.Duration
	HistoryWindow int
}

// Ask answers one question within the given session. The session is
// mutated only when generation succeeds; every failure leaves the
// conversation log untouched. Returns session.ErrNotFound for unknown or
// expired session ids.
func (o *Orchestrator) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	sess, err := o.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	queryVec, err := o.Embedder.EmbedQuery(ctx, question)
	if err != nil || len(queryVec) == 0 {
		log.Printf("Query embedding failed for session %s: %v", sessionID, err)
		return nil, ErrContextUnavailable
	}

	epoch := o.Index.Epoch()
	results, err := o.Index.Query(ctx, queryVec, o.TopK)
	if err != nil {
		log.Printf("Index query failed for session %s: %v", sessionID, err)
		return nil, ErrIndexUnavailable
	}
	if len(results) == 0 {
		return nil, ErrNoRelevantContent
	}

	prompt := buildContext(results, sess.Messages, o.HistoryWindow)

	genCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	text, err := o.Generator.Generate(genCtx, question, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			log.Printf("Generation timed out after %s for session %s", o.Timeout, sessionID)
			return nil, ErrGenerationTimeout
		}
		log.Printf("Generation failed for session %s: %v", sessionID, err)
		return nil, ErrGenerationFailed
	}

	if err := o.Sessions.AppendTurn(ctx, sessionID, question, text); err != nil {
		// The answer exists; losing the history write should not hide it.
		log.Printf("Failed to persist turn for session %s: %v", sessionID, err)
	}

	return &Answer{
		Text:    text,
		Sources: collectSources(results),
		Epoch:   epoch,
	}, nil
}

// buildContext assembles the generation context: the retrieved chunks,
// each tagged with its article title and url, followed by up to
// historyWindow most recent prior turns.
func buildContext(results []index.Result, history []session.Message, historyWindow int) string {
	var b strings.Builder

	parts := make([]string, 0, len(results))
	for _, r := range results {
		title, _ := r.Metadata["title"].(string)
		url, _ := r.Metadata["url"].(string)
		parts = append(parts, fmt.Sprintf("Article: %s\nSource: %s\n%s", title, url, r.Document))
	}
	b.WriteString(strings.Join(parts, "\n\n---\n\n"))

	if historyWindow > 0 && len(history) > 0 {
		// A turn is a user/assistant pair, so the window covers twice as
		// many messages.
		keep := historyWindow * 2
		if keep > len(history) {
			keep = len(history)
		}
		b.WriteString("\n\nRecent conversation:\n")
		for _, m := range history[len(history)-keep:] {
			b.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Text))
		}
	}

	return b.String()
}

// collectSources deduplicates retrieved chunks by article url, preserving
// retrieval order.
func collectSources(results []index.Result) []Source {
	seen := make(map[string]bool, len(results))
	sources := make([]Source, 0, len(results))
	for _, r := range results {
		url, _ := r.Metadata["url"].(string)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		title, _ := r.Metadata["title"].(string)
		sources = append(sources, Source{Title: title, URL: url})
	}
	return sources
}

// UserMessage maps a turn failure to the message shown to the user. Unknown
// errors get a generic fallback.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyQuestion):
		return "Please enter a valid question."
	case errors.Is(err, session.ErrNotFound):
		return "Your session has expired. Please start a new conversation."
	case errors.Is(err, ErrContextUnavailable):
		return "I couldn't process your question right now. Please try again."
	case errors.Is(err, ErrNoRelevantContent):
		return "I couldn't find any relevant news articles for your question."
	case errors.Is(err, ErrIndexUnavailable):
		return "The news index is being refreshed. Please try again shortly."
	case errors.Is(err, ErrGenerationTimeout):
		return "The answer took too long to generate. Please try again."
	case errors.Is(err, ErrGenerationFailed):
		return "I ran into a problem generating an answer. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
