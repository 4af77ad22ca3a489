package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/ProtoLens/internal/ai"
)

func TestProvider_New(t *testing.T) {
	config := DefaultConfig()

	provider, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if provider.Name() != "ollama" {
		t.Errorf("Expected provider name 'ollama', got '%s'", provider.Name())
	}
	if err := provider.ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig() error = %v", err)
	}
}

func TestProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path '/api/generate', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}

		var req struct {
			Model  string         `json:"model"`
			Prompt string         `json:"prompt"`
			System string         `json:"system"`
			Stream bool           `json:"stream"`
			Format map[string]any `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		if req.Stream {
			t.Error("Expected stream=false")
		}
		if req.Prompt != "Analyze\n\nPROTOCOL CODE:\nrun()" {
			t.Errorf("Unexpected prompt %q", req.Prompt)
		}
		if req.System != "You are a simulator" {
			t.Errorf("Unexpected system %q", req.System)
		}
		if req.Format["type"] != "object" {
			t.Errorf("Expected schema format, got %v", req.Format)
		}

		resp := GenerateResponse{
			Model:           req.Model,
			Response:        `{"summary":"ok"}`,
			Done:            true,
			CreatedAt:       time.Now(),
			PromptEvalCount: 10,
			EvalCount:       5,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL

	provider, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), &ai.CompletionRequest{
		SystemPrompt:     "You are a simulator",
		Prompt:           "Analyze",
		Parts:            []string{"PROTOCOL CODE:\nrun()"},
		ResponseMIMEType: ai.MIMETypeJSON,
		ResponseSchema:   ai.Object(map[string]*ai.Schema{"summary": ai.String()}, "summary"),
		RequestID:        "req-2",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != `{"summary":"ok"}` {
		t.Errorf("Unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Expected total tokens 15, got %d", resp.Usage.TotalTokens)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("Expected finish reason stop, got %q", resp.FinishReason)
	}
	if resp.RequestID != "req-2" {
		t.Errorf("Expected request id req-2, got %q", resp.RequestID)
	}
}

func TestProvider_JSONModeWithoutSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Format string `json:"format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Format != "json" {
			t.Errorf("Expected format json, got %q", req.Format)
		}
		_ = json.NewEncoder(w).Encode(GenerateResponse{Response: "{}", Done: true})
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	provider, _ := New(config)

	if _, err := provider.Complete(context.Background(), &ai.CompletionRequest{
		Prompt:           "x",
		ResponseMIMEType: ai.MIMETypeJSON,
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestProvider_ErrorHandling(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ai.ErrorType
		wantMsg  string
	}{
		{"missing model", http.StatusNotFound, `{"error":"model 'x' not found"}`, ai.ErrTypeModelUnavailable, "model 'x' not found"},
		{"server error", http.StatusInternalServerError, `oops`, ai.ErrTypeProvider, "request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			config := DefaultConfig()
			config.BaseURL = server.URL
			provider, _ := New(config)

			_, err := provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "test"})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := ai.ErrorTypeOf(err); got != tt.wantType {
				t.Errorf("ErrorTypeOf() = %v, want %v", got, tt.wantType)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default config", func(c *Config) {}, false},
		{"empty base URL", func(c *Config) { c.BaseURL = "" }, true},
		{"empty model", func(c *Config) { c.DefaultModel = "" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"temperature too high", func(c *Config) { c.DefaultTemperature = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Register(t *testing.T) {
	reg := ai.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	p, err := reg.Create("ollama", &ai.ProviderConfig{DefaultModel: "qwen2.5"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.(*Provider).config.DefaultModel != "qwen2.5" {
		t.Errorf("expected model override to apply")
	}
}
