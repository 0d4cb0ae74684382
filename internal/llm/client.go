package llm

import "context"

// Client is a single-turn text-completion service. No conversation
// memory is kept between calls.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}
