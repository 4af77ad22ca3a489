package ai

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestCompletionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CompletionRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: CompletionRequest{
				Prompt:      "Test prompt",
				MaxTokens:   100,
				Temperature: 0.7,
			},
		},
		{
			name: "parts only",
			req:  CompletionRequest{Parts: []string{"PROTOCOL CODE:\nx"}},
		},
		{
			name:    "empty prompt and parts",
			req:     CompletionRequest{Parts: []string{""}},
			wantErr: true,
		},
		{
			name:    "negative max tokens",
			req:     CompletionRequest{Prompt: "Test", MaxTokens: -1},
			wantErr: true,
		},
		{
			name:    "invalid temperature",
			req:     CompletionRequest{Prompt: "Test", Temperature: 2.5},
			wantErr: true,
		},
		{
			name:    "schema without json mime type",
			req:     CompletionRequest{Prompt: "Test", ResponseSchema: String()},
			wantErr: true,
		},
		{
			name: "schema with json mime type",
			req:  CompletionRequest{Prompt: "Test", ResponseSchema: String(), ResponseMIMEType: MIMETypeJSON},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
		})
	}
}

func TestCompletionRequest_Segments(t *testing.T) {
	req := CompletionRequest{Prompt: "instructions", Parts: []string{"", "code"}}
	got := req.Segments()
	want := []string{"instructions", "code"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segments() = %v, want %v", got, want)
	}
}

func TestSchema_JSONSchema(t *testing.T) {
	s := Object(map[string]*Schema{
		"name":  String(),
		"count": Integer().Describe("how many"),
		"tags":  ArrayOf(String()),
	}, "name")

	doc := s.JSONSchema()
	if doc["type"] != "object" {
		t.Fatalf("type = %v, want object", doc["type"])
	}

	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties has type %T", doc["properties"])
	}
	count := props["count"].(map[string]any)
	if count["type"] != "integer" || count["description"] != "how many" {
		t.Errorf("count = %v", count)
	}
	tags := props["tags"].(map[string]any)
	if items := tags["items"].(map[string]any); items["type"] != "string" {
		t.Errorf("tags items = %v", items)
	}
	if !reflect.DeepEqual(doc["required"], []any{"name"}) {
		t.Errorf("required = %v", doc["required"])
	}

	var nilSchema *Schema
	if nilSchema.JSONSchema() != nil {
		t.Error("nil schema should render nil")
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderErrorWithCause(ErrTypeNetwork, "request failed", "gemini", cause)

	want := "provider=gemini: type=network: request failed: cause=connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !errors.Is(err, &ProviderError{Type: ErrTypeNetwork}) {
		t.Error("expected errors.Is to match on type")
	}
	if !IsRetryableError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("network errors are retryable")
	}
}

func TestErrorTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"provider error", NewProviderError(ErrTypeAuthentication, "bad key", "openai"), ErrTypeAuthentication},
		{"wrapped provider error", fmt.Errorf("x: %w", NewProviderError(ErrTypeTimeout, "slow", "ollama")), ErrTypeTimeout},
		{"configuration error", NewConfigurationError("gemini", "api_key", "missing"), ErrTypeConfiguration},
		{"plain error", errors.New("boom"), ErrTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorTypeOf(tt.err); got != tt.want {
				t.Errorf("ErrorTypeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

type stubProvider struct{ name string }

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Complete(_ context.Context, _ *CompletionRequest) (*CompletionResponse, error) {
	return &CompletionResponse{Content: "{}"}, nil
}
func (s *stubProvider) ValidateConfig() error { return nil }
func (s *stubProvider) Close() error          { return nil }

type stubFactory struct {
	name      string
	validated *ProviderConfig
}

func (f *stubFactory) Create(config *ProviderConfig) (LLMProvider, error) {
	return &stubProvider{name: config.Name}, nil
}
func (f *stubFactory) Type() string { return f.name }
func (f *stubFactory) ValidateConfig(config *ProviderConfig) error {
	f.validated = config
	if config.APIKey == "" {
		return NewConfigurationError(f.name, "api_key", "required")
	}
	return nil
}
func (f *stubFactory) DefaultConfig() *ProviderConfig {
	return &ProviderConfig{Name: f.name, Type: f.name}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	factory := &stubFactory{name: "stub"}

	if err := reg.Register("stub", factory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register("stub", factory); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if !reg.IsRegistered("stub") || reg.IsRegistered("other") {
		t.Error("IsRegistered reported wrong state")
	}
	if got := reg.List(); !reflect.DeepEqual(got, []string{"stub"}) {
		t.Errorf("List() = %v", got)
	}

	if _, err := reg.Create("stub", nil); !IsConfigurationError(err) {
		t.Errorf("expected configuration error for default config, got %v", err)
	}

	p, err := reg.Create("stub", &ProviderConfig{Name: "stub", APIKey: "k"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name() != "stub" {
		t.Errorf("Name() = %q", p.Name())
	}

	_, err = reg.Create("missing", nil)
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Type != ErrTypeNotFound {
		t.Errorf("expected not_found error, got %v", err)
	}
}
