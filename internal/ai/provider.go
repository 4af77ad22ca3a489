package ai

import (
	"context"
)

// LLMProvider defines the interface for structured-output LLM providers
type LLMProvider interface {
	// Name returns the provider name (e.g., "gemini", "openai", "ollama")
	Name() string

	// Complete sends one request and returns the raw text of the response.
	// Implementations make a single attempt and never retry.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error

	// Close cleans up provider resources
	Close() error
}
