package generation

import "context"

// Client produces an answer for a question grounded in the supplied
// context text. Implementations may be slow or fail; callers enforce a
// timeout through ctx and must not hold locks across the call.
type Client interface {
	Generate(ctx context.Context, question, contextText string) (string, error)
}
