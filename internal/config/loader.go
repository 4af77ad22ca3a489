package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.protolens.yaml",               // Project-specific config (highest priority)
	"~/.config/protolens/config.yaml", // User config
	"/etc/protolens/config.yaml",      // System config (lowest priority)
}

// APIKeyEnvVars are read in order; the first non-empty value wins
var APIKeyEnvVars = []string{"PROTOLENS_AI_API_KEY", "GEMINI_API_KEY", "API_KEY"}

// Warner receives non-fatal problems found while loading
type Warner interface {
	Warn(msg string, args ...interface{})
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
	warn        Warner
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// WithWarner reports unreadable config files to w instead of failing silently
func (l *Loader) WithWarner(w Warner) *Loader {
	l.warn = w
	return l
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.protolens.yaml
// 4. ~/.config/protolens/config.yaml
// 5. /etc/protolens/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := loadFromFile(config, path); err != nil && l.warn != nil {
				l.warn.Warn("Failed to load config from %s: %v", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file on top of config. Keys absent from the
// file keep their current values.
func loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// AI Config
		"PROTOLENS_AI_PROVIDER":    func(v string) error { config.AI.Provider = v; return nil },
		"PROTOLENS_AI_MODEL":       func(v string) error { config.AI.Model = v; return nil },
		"PROTOLENS_AI_BASE_URL":    func(v string) error { config.AI.BaseURL = v; return nil },
		"PROTOLENS_AI_TIMEOUT":     func(v string) error { return parseDuration(v, &config.AI.Timeout) },
		"PROTOLENS_AI_MAX_TOKENS":  func(v string) error { return parseInt(v, &config.AI.MaxTokens) },
		"PROTOLENS_AI_TEMPERATURE": func(v string) error { return parseFloat(v, &config.AI.Temperature) },

		// Output Config
		"PROTOLENS_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"PROTOLENS_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"PROTOLENS_OUTPUT_EMOJI":          func(v string) error { return parseBool(v, &config.Output.Emoji) },
		"PROTOLENS_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"PROTOLENS_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		// Editor Config
		"PROTOLENS_EDITOR_LINE_NUMBERS": func(v string) error { return parseBool(v, &config.Editor.LineNumbers) },
		"PROTOLENS_EDITOR_CHAR_LIMIT":   func(v string) error { return parseInt(v, &config.Editor.CharLimit) },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	if key, ok := l.apiKeyFromEnv(); ok {
		config.AI.APIKey = key
	}

	return nil
}

func (l *Loader) apiKeyFromEnv() (string, bool) {
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(l.getenv(name)); v != "" {
			return v, true
		}
	}
	return "", false
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ExpandPath expands a leading ~ in user-supplied paths
func ExpandPath(path string) string {
	return expandPath(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
