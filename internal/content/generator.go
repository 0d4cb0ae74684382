package content

import (
	"context"
	"time"

	"go.uber.org/zap"

	"botfolio/internal/llm"
)

const (
	completionMaxTokens   = 1000
	completionTemperature = 0.7
	completionTimeout     = 30 * time.Second
)

// Generator produces post text for a prompt: first through the
// completion service, then deterministically from the canned examples
// when the service is unconfigured, failing or slow.
type Generator struct {
	client llm.Client
	log    *zap.Logger
}

// NewGenerator accepts a nil client; that disables real generation and
// every call serves the canned fallback.
func NewGenerator(client llm.Client, log *zap.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Generate returns the post text and whether it came from the fallback.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, bool) {
	if g.client == nil {
		return FallbackFor(prompt), true
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	text, err := g.client.Complete(ctx, prompt, completionMaxTokens, completionTemperature)
	if err != nil {
		g.log.Warn("completion failed, serving canned example", zap.Error(err))
		return FallbackFor(prompt), true
	}
	return text, false
}
