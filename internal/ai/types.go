package ai

import (
	"strconv"
	"time"
)

// MIMETypeJSON asks the provider for a JSON document instead of free text
const MIMETypeJSON = "application/json"

// CompletionRequest represents one request to a provider
type CompletionRequest struct {
	// Prompt is the instruction text
	Prompt string `json:"prompt"`

	// Parts are additional text segments sent after Prompt, in order
	Parts []string `json:"parts,omitempty"`

	// SystemPrompt provides system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 1.0)
	Temperature float64 `json:"temperature,omitempty"`

	// Model specifies which model to use (provider-specific)
	Model string `json:"model,omitempty"`

	// ResponseMIMEType requests a specific output encoding
	ResponseMIMEType string `json:"response_mime_type,omitempty"`

	// ResponseSchema constrains structured output
	ResponseSchema *Schema `json:"response_schema,omitempty"`

	// Metadata for request tracking
	RequestID string            `json:"request_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Segments returns Prompt followed by Parts, skipping empty strings
func (r *CompletionRequest) Segments() []string {
	segments := make([]string, 0, len(r.Parts)+1)
	if r.Prompt != "" {
		segments = append(segments, r.Prompt)
	}
	for _, p := range r.Parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// CompletionResponse represents the response from a completion request
type CompletionResponse struct {
	// Content is the generated text
	Content string `json:"content"`

	// FinishReason indicates why the completion finished
	FinishReason string `json:"finish_reason"`

	// Usage contains token usage information
	Usage *TokenUsage `json:"usage"`

	// Model indicates which model was used
	Model string `json:"model"`

	// RequestID matches the original request
	RequestID string `json:"request_id,omitempty"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig contains configuration for a provider
type ProviderConfig struct {
	// Name is the provider identifier
	Name string `json:"name"`

	// Type is the provider type (gemini, openai, ollama)
	Type string `json:"type"`

	// APIKey for authentication
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint
	BaseURL string `json:"base_url,omitempty"`

	// DefaultModel is the default model to use
	DefaultModel string `json:"default_model,omitempty"`

	// MaxTokens is the maximum response size
	MaxTokens int `json:"max_tokens,omitempty"`

	// DefaultTemperature for requests
	DefaultTemperature float64 `json:"default_temperature,omitempty"`

	// Timeout for the HTTP client, zero means none
	Timeout time.Duration `json:"timeout,omitempty"`

	// Custom headers for requests
	Headers map[string]string `json:"headers,omitempty"`
}

// Validate checks the request before it is sent
func (r *CompletionRequest) Validate() error {
	if len(r.Segments()) == 0 {
		return NewValidationError("prompt", "", "prompt cannot be empty")
	}
	if r.MaxTokens < 0 {
		return NewValidationError("max_tokens", strconv.Itoa(r.MaxTokens), "max_tokens cannot be negative")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return NewValidationError("temperature", strconv.FormatFloat(r.Temperature, 'f', -1, 64), "temperature must be between 0 and 2")
	}
	if r.ResponseSchema != nil && r.ResponseMIMEType != MIMETypeJSON {
		return NewValidationError("response_mime_type", r.ResponseMIMEType, "a response schema requires "+MIMETypeJSON)
	}
	return nil
}
