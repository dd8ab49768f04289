package chunker

import (
	"strings"
	"testing"
)

func TestFixedSplit(t *testing.T) {
	c := NewFixed(10)

	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"single window", "hello", 1},
		{"two windows", "aaaaaaaaaabbbbb", 2},
		{"exact boundary", strings.Repeat("x", 20), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Split(tc.input)
			if len(got) != tc.want {
				t.Fatalf("Split(%q) returned %d chunks; want %d", tc.input, len(got), tc.want)
			}
			for _, chunk := range got {
				if strings.TrimSpace(chunk) == "" {
					t.Fatalf("Split emitted a whitespace-only chunk")
				}
				if len([]rune(chunk)) > 10 {
					t.Fatalf("chunk %q exceeds window size", chunk)
				}
			}
		})
	}
}

func TestSentenceSplitPacking(t *testing.T) {
	c := NewSentence(30)
	text := "First sentence here. Second one. A third sentence follows now. Short."

	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for _, chunk := range chunks {
		if len([]rune(chunk)) > 30 {
			t.Fatalf("chunk %q exceeds the configured bound", chunk)
		}
	}
	// Every word of the input must survive chunking.
	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(joined, word) {
			t.Fatalf("word %q lost during chunking", word)
		}
	}
}

func TestSentenceSplitOversizedSentence(t *testing.T) {
	c := NewSentence(10)
	chunks := c.Split(strings.Repeat("a", 25) + ".")
	if len(chunks) < 3 {
		t.Fatalf("expected oversized sentence to be windowed, got %d chunks", len(chunks))
	}
	for _, chunk := range chunks {
		if len([]rune(chunk)) > 10 {
			t.Fatalf("chunk %q exceeds the configured bound", chunk)
		}
	}
}

func TestSentenceSplitEmpty(t *testing.T) {
	c := NewSentence(100)
	if got := c.Split(""); len(got) != 0 {
		t.Fatalf("Split(\"\") = %v; want no chunks", got)
	}
	if got := c.Split("   \n  "); len(got) != 0 {
		t.Fatalf("whitespace input produced chunks: %v", got)
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon. Zeta eta theta iota kappa. Lambda mu."
	for _, c := range []Chunker{NewFixed(20), NewSentence(25)} {
		first := c.Split(text)
		second := c.Split(text)
		if len(first) != len(second) {
			t.Fatalf("chunk count changed between runs: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("chunk %d changed between runs: %q vs %q", i, first[i], second[i])
			}
		}
	}
}
