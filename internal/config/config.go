package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	AI      AIConfig     `yaml:"ai" json:"ai"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Editor  EditorConfig `yaml:"editor" json:"editor"`
}

// AIConfig configures the analysis service
type AIConfig struct {
	Provider    string        `yaml:"provider" json:"provider"`       // gemini|openai|ollama
	Model       string        `yaml:"model" json:"model"`             // empty uses the provider default
	APIKey      string        `yaml:"api_key" json:"api_key"`         // usually supplied through the environment
	BaseURL     string        `yaml:"base_url" json:"base_url"`       // endpoint override
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`         // 0 waits for the service
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`   // 0 uses the provider default
	Temperature float64       `yaml:"temperature" json:"temperature"` // 0 keeps counts deterministic
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|html|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Emoji         bool   `yaml:"emoji" json:"emoji"`
	Theme         string `yaml:"theme" json:"theme"`       // default|high-contrast|minimal
	LogFile       string `yaml:"log_file" json:"log_file"` // where logs go while the TUI runs
}

// EditorConfig configures the protocol editor
type EditorConfig struct {
	LineNumbers bool `yaml:"line_numbers" json:"line_numbers"`
	CharLimit   int  `yaml:"char_limit" json:"char_limit"` // 0 means unlimited
}

var (
	validProviders = map[string]bool{"gemini": true, "openai": true, "ollama": true}
	validFormats   = map[string]bool{"text": true, "json": true, "markdown": true, "md": true, "html": true, "csv": true}
	validColors    = map[string]bool{"auto": true, "always": true, "never": true}
	validThemes    = map[string]bool{"default": true, "high-contrast": true, "minimal": true}
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		AI: AIConfig{
			Provider: "gemini",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Emoji:         true,
			Theme:         "default",
		},
		Editor: EditorConfig{
			LineNumbers: true,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Editor.CharLimit < 0 {
		return fmt.Errorf("char_limit must be non-negative")
	}
	return nil
}

func (c *Config) validateAIConfig() error {
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("invalid AI provider: %q (must be one of: gemini, openai, ollama)", c.AI.Provider)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.AI.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !validFormats[c.Output.DefaultFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown, html, csv)", c.Output.DefaultFormat)
	}
	if c.Output.ColorMode != "" && !validColors[c.Output.ColorMode] {
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}
	if c.Output.Theme != "" && !validThemes[c.Output.Theme] {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
	}
	return nil
}

// Redacted returns a copy safe to print, with the API key masked
func (c *Config) Redacted() *Config {
	out := *c
	if out.AI.APIKey != "" {
		out.AI.APIKey = "********"
	}
	return &out
}
