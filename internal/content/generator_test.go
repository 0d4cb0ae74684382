package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubClient struct {
	text string
	err  error
}

func (c stubClient) Complete(_ context.Context, _ string, _ int, _ float32) (string, error) {
	return c.text, c.err
}

func TestGenerateWithoutClientServesFallback(t *testing.T) {
	g := NewGenerator(nil, zap.NewNop())

	text, fromFallback := g.Generate(context.Background(), BuildPrompt("twitter", "launch"))
	assert.True(t, fromFallback)
	assert.Equal(t, cannedExamples["twitter"], text)
}

func TestGenerateClientErrorServesFallback(t *testing.T) {
	g := NewGenerator(stubClient{err: errors.New("rate limited")}, zap.NewNop())

	text, fromFallback := g.Generate(context.Background(), BuildPrompt("blog", "launch"))
	assert.True(t, fromFallback)
	assert.Equal(t, cannedExamples["blog"], text)
}

func TestGenerateReturnsClientText(t *testing.T) {
	g := NewGenerator(stubClient{text: "fresh post"}, zap.NewNop())

	text, fromFallback := g.Generate(context.Background(), BuildPrompt("telegram", "launch"))
	assert.False(t, fromFallback)
	assert.Equal(t, "fresh post", text)
}
