package chunker

import (
	"regexp"
	"strings"
)

// Chunker splits normalized article text into bounded-length passages.
// Implementations must be deterministic: the same input always yields the
// same chunk boundaries. Empty input yields zero chunks; whitespace-only
// fragments are dropped and never reach the embedder.
type Chunker interface {
	Split(text string) []string
}

// Fixed splits text into fixed-width rune windows.
type Fixed struct {
	size int
}

// NewFixed returns a Fixed chunker with the given window size.
func NewFixed(size int) *Fixed {
	if size <= 0 {
		size = 500
	}
	return &Fixed{size: size}
}

func (f *Fixed) Split(text string) []string {
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += f.size {
		end := i + f.size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*\s*`)

// Sentence packs whole sentences into chunks of at most maxLen runes.
// A single sentence longer than the bound is hard-split so that no emitted
// chunk ever exceeds maxLen.
type Sentence struct {
	maxLen int
}

// NewSentence returns a Sentence chunker with the given maximum chunk length.
func NewSentence(maxLen int) *Sentence {
	if maxLen <= 0 {
		maxLen = 512
	}
	return &Sentence{maxLen: maxLen}
}

func (s *Sentence) Split(text string) []string {
	sentences := sentenceRe.FindAllString(text, -1)

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		runes := []rune(sentence)
		if len(runes) > s.maxLen {
			// Oversized sentence: flush what we have, then window it.
			flush()
			for i := 0; i < len(runes); i += s.maxLen {
				end := i + s.maxLen
				if end > len(runes) {
					end = len(runes)
				}
				piece := strings.TrimSpace(string(runes[i:end]))
				if piece != "" {
					chunks = append(chunks, piece)
				}
			}
			continue
		}

		// +1 accounts for the joining space.
		if currentLen > 0 && currentLen+1+len(runes) > s.maxLen {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += len(runes)
	}
	flush()

	return chunks
}
