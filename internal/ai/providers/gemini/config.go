package gemini

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/ProtoLens/internal/ai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultMaxTokens   = 65536
	DefaultTemperature = 0.0
)

// Config holds Gemini API configuration
type Config struct {
	APIKey string `json:"api_key"`

	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL string `json:"base_url,omitempty"`

	DefaultModel string `json:"default_model"`

	// MaxTokens caps output tokens, zero leaves the model default
	MaxTokens int `json:"max_tokens"`

	DefaultTemperature float64 `json:"default_temperature"`

	// Timeout for the HTTP client, zero means none
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultModel:       DefaultModel,
		DefaultTemperature: DefaultTemperature,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("gemini", "api_key", "API key is required (set GEMINI_API_KEY)")
	}

	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
		}
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("gemini", "default_model", "default model is required")
	}

	if c.MaxTokens < 0 {
		return ai.NewConfigurationError("gemini", "max_tokens", "max tokens cannot be negative")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("gemini", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout < 0 {
		return ai.NewConfigurationError("gemini", "timeout", "timeout cannot be negative")
	}

	return nil
}

// ToProviderConfig converts Gemini config to generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:               "gemini",
		Type:               "gemini",
		APIKey:             c.APIKey,
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
	}
}

// FromProviderConfig creates Gemini config from generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()
	if pc == nil {
		return config
	}

	config.APIKey = pc.APIKey
	config.BaseURL = pc.BaseURL
	config.MaxTokens = pc.MaxTokens
	config.Timeout = pc.Timeout

	if pc.DefaultModel != "" {
		config.DefaultModel = pc.DefaultModel
	}
	if pc.DefaultTemperature > 0 {
		config.DefaultTemperature = pc.DefaultTemperature
	}

	return config
}
