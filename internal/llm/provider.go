package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answered the request but
// produced no text. Callers must treat this as an upstream failure, not as a
// valid empty answer.
var ErrEmptyCompletion = errors.New("llm: provider returned an empty completion")

// Provider defines the interface for text-completion providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
