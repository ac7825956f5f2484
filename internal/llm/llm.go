package llm

import (
	"context"
	"errors"
)

// Client abstracts text-completion providers for resume parsing.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// GenerateContent returns ErrNotConfigured.
func (PlaceholderClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
