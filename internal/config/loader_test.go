package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLoader(env map[string]string) *Loader {
	l := NewLoader()
	l.configPaths = nil
	l.getenv = func(key string) string { return env[key] }
	return l
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := newTestLoader(nil).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("Expected default AI provider gemini, got %s", cfg.AI.Provider)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, "test-config.yaml", `version: "1.0"
ai:
  provider: "openai"
  model: "gpt-4o"
  timeout: 45s
output:
  default_format: "markdown"
editor:
  char_limit: 20000
`)

	cfg, err := newTestLoader(nil).LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.AI.Provider != "openai" {
		t.Errorf("Expected AI provider openai, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("Expected AI model gpt-4o, got %s", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 45*time.Second {
		t.Errorf("Expected AI timeout 45s, got %v", cfg.AI.Timeout)
	}
	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("Expected output format markdown, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Editor.CharLimit != 20000 {
		t.Errorf("Expected char limit 20000, got %d", cfg.Editor.CharLimit)
	}
	// keys absent from the file keep their defaults
	if !cfg.Output.Emoji {
		t.Error("Expected emoji default to survive a file without the key")
	}
	if !cfg.Editor.LineNumbers {
		t.Error("Expected line_numbers default to survive a file without the key")
	}
}

func TestLoadConfigFileCanDisableBooleans(t *testing.T) {
	path := writeConfig(t, "config.yaml", "output:\n  emoji: false\n")

	cfg, err := newTestLoader(nil).LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Emoji {
		t.Error("Expected emoji to be disabled by the file")
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project.yaml")
	system := filepath.Join(dir, "system.yaml")
	if err := os.WriteFile(project, []byte("ai:\n  model: project-model\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(system, []byte("ai:\n  model: system-model\n  provider: ollama\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := newTestLoader(nil)
	loader.configPaths = []string{project, filepath.Join(dir, "missing.yaml"), system}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AI.Model != "project-model" {
		t.Errorf("Expected the higher priority file to win, got %s", cfg.AI.Model)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("Expected lower priority keys to remain, got %s", cfg.AI.Provider)
	}
}

type recordingWarner struct{ messages []string }

func (w *recordingWarner) Warn(msg string, args ...interface{}) {
	w.messages = append(w.messages, fmt.Sprintf(msg, args...))
}

func TestLoadConfigWarnsOnBrokenSearchPathFile(t *testing.T) {
	broken := writeConfig(t, "broken.yaml", "ai: [unterminated\n")

	warner := &recordingWarner{}
	loader := newTestLoader(nil).WithWarner(warner)
	loader.configPaths = []string{broken}

	if _, err := loader.LoadConfig(""); err != nil {
		t.Fatalf("A broken search-path file should not be fatal: %v", err)
	}
	if len(warner.messages) != 1 || !strings.Contains(warner.messages[0], broken) {
		t.Errorf("Expected one warning naming %s, got %v", broken, warner.messages)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", "ai:\n  model: file-model\n  timeout: 10s\n")
	env := map[string]string{
		"PROTOLENS_AI_MODEL":            "env-model",
		"PROTOLENS_AI_TIMEOUT":          "2m",
		"PROTOLENS_AI_TEMPERATURE":      "0.2",
		"PROTOLENS_OUTPUT_EMOJI":        "false",
		"PROTOLENS_EDITOR_LINE_NUMBERS": "false",
	}

	cfg, err := newTestLoader(env).LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AI.Model != "env-model" {
		t.Errorf("Expected env model, got %s", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 2*time.Minute {
		t.Errorf("Expected env timeout 2m, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", cfg.AI.Temperature)
	}
	if cfg.Output.Emoji || cfg.Editor.LineNumbers {
		t.Error("Expected boolean env overrides to apply")
	}
}

func TestLoadConfigInvalidEnv(t *testing.T) {
	_, err := newTestLoader(map[string]string{"PROTOLENS_AI_TIMEOUT": "soon"}).LoadConfig("")
	if err == nil || !strings.Contains(err.Error(), "PROTOLENS_AI_TIMEOUT") {
		t.Errorf("Expected error naming the variable, got %v", err)
	}
}

func TestAPIKeyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want string
	}{
		{name: "none", want: ""},
		{name: "file only", file: "file-key", want: "file-key"},
		{name: "generic", env: map[string]string{"API_KEY": "generic"}, file: "file-key", want: "generic"},
		{name: "gemini over generic", env: map[string]string{"API_KEY": "generic", "GEMINI_API_KEY": "gemini"}, want: "gemini"},
		{
			name: "protolens over all",
			env:  map[string]string{"API_KEY": "generic", "GEMINI_API_KEY": "gemini", "PROTOLENS_AI_API_KEY": "own"},
			want: "own",
		},
		{name: "blank ignored", env: map[string]string{"PROTOLENS_AI_API_KEY": "  ", "API_KEY": "generic"}, want: "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", fmt.Sprintf("ai:\n  api_key: %q\n", tt.file))
			cfg, err := newTestLoader(tt.env).LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.AI.APIKey != tt.want {
				t.Errorf("APIKey = %q, want %q", cfg.AI.APIKey, tt.want)
			}
		})
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"config.yaml", false},
		{"/tmp/protolens.yml", false},
		{"../config.yaml", true},
		{"config.json", true},
		{"/proc/self/config.yaml", true},
	}

	for _, tt := range tests {
		err := validateConfigPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateConfigPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "config.yaml", "ai:\n  provider: anthropic\n")
	if _, err := newTestLoader(nil).LoadConfig(path); err == nil {
		t.Error("Expected validation error for unknown provider")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/protocols/run.py"); got != filepath.Join(home, "protocols/run.py") {
		t.Errorf("ExpandPath() = %s", got)
	}
	if got := ExpandPath("/abs/run.py"); got != "/abs/run.py" {
		t.Errorf("ExpandPath() changed an absolute path: %s", got)
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 paths, got %d", len(paths))
	}
	if paths[0] != "./.protolens.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if strings.HasPrefix(paths[1], "~") {
		t.Errorf("Expected home to be expanded, got %s", paths[1])
	}
}
