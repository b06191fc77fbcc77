package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for workforce pattern detection.
type Client interface {
	DetectPatterns(ctx context.Context, input DetectInput) (json.RawMessage, error)
}

// DetectInput captures the inputs for one pattern detection call.
type DetectInput struct {
	Digest        string
	PromptVersion string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// DetectPatterns returns ErrNotImplemented.
func (PlaceholderClient) DetectPatterns(ctx context.Context, input DetectInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
