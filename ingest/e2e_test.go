package ingest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LearnWithDhruv/RAG-NEWS/query"
	"github.com/LearnWithDhruv/RAG-NEWS/session"
	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Del(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

type echoGenerator struct {
	lastContext string
}

func (g *echoGenerator) Generate(ctx context.Context, question, contextText string) (string, error) {
	g.lastContext = contextText
	return "Based on the articles: " + question, nil
}

// Ingest a small article, then answer a question against the same index.
func TestIngestThenQuery(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	p, idx, _ := newTestPipeline(emb)

	a := article(0, "https://example.com/markets", "Markets Update",
		"Stocks climbed on Friday. Bond yields fell slightly. Oil held steady.")
	if _, err := p.Run(ctx, []*types.Article{a}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sessions := session.NewStore(&memKV{data: make(map[string]string)}, time.Hour)
	id, err := sessions.Create(ctx)
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}

	gen := &echoGenerator{}
	o := &query.Orchestrator{
		Embedder:      emb,
		Index:         idx,
		Sessions:      sessions,
		Generator:     gen,
		TopK:          3,
		Timeout:       time.Second,
		HistoryWindow: 5,
	}

	answer, err := o.Ask(ctx, id, "what happened to stocks?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Text == "" {
		t.Fatal("empty answer text")
	}
	if len(answer.Sources) != 1 || answer.Sources[0].URL != a.URL {
		t.Fatalf("unexpected sources: %+v", answer.Sources)
	}
	if !strings.Contains(gen.lastContext, "Markets Update") {
		t.Fatalf("generation context missing article title:\n%s", gen.lastContext)
	}

	sess, err := sessions.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("expected the completed turn in the session, got %d messages", len(sess.Messages))
	}
}
