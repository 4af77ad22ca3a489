package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/ProtoLens/internal/config"
)

func TestConfigInitWritesPrivateFile(t *testing.T) {
	isolate(t, nil)
	target := filepath.Join(t.TempDir(), "nested", "protolens.yaml")

	out, _, err := execute(t, "", "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.SampleConfig(), string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigInitAsksBeforeOverwrite(t *testing.T) {
	isolate(t, nil)
	target := filepath.Join(t.TempDir(), "protolens.yaml")
	require.NoError(t, os.WriteFile(target, []byte("keep me"), 0o644))

	var asked string
	promptConfirm = func(_ io.Reader, _ io.Writer, question string) bool {
		asked = question
		return false
	}

	_, _, err := execute(t, "", "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Contains(t, asked, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	promptConfirm = func(io.Reader, io.Writer, string) bool { return true }
	_, _, err = execute(t, "", "config", "init", "--minimal", "--path", target)
	require.NoError(t, err)

	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.MinimalSampleConfig(), string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigInitForceSkipsPrompt(t *testing.T) {
	isolate(t, nil)
	target := filepath.Join(t.TempDir(), "protolens.yaml")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))

	promptConfirm = func(io.Reader, io.Writer, string) bool {
		t.Fatal("prompt shown despite --force")
		return false
	}

	_, _, err := execute(t, "", "config", "init", "--force", "--path", target)
	require.NoError(t, err)
}

func TestDefaultPromptConfirmWithoutTerminal(t *testing.T) {
	assert.False(t, defaultPromptConfirm(nil, io.Discard, "Overwrite?"))
}

func TestConfigShowRedactsKey(t *testing.T) {
	isolate(t, nil)
	cfg := writeConfig(t, "ai:\n  provider: openai\n  api_key: sk-secret\n")

	out, _, err := execute(t, "", "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: openai")
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, "********")

	out, _, err = execute(t, "", "--config", cfg, "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"provider": "openai"`)
	assert.NotContains(t, out, "sk-secret")
}

func TestConfigValidate(t *testing.T) {
	isolate(t, nil)

	good := writeConfig(t, "ai:\n  provider: ollama\n")
	out, _, err := execute(t, "", "--config", good, "--no-emoji", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "AI Provider: ollama")
	assert.Contains(t, out, "API Key: not set")

	bad := writeConfig(t, "ai:\n  provider: nope\n")
	out, _, err = execute(t, "", "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "validation failed")
}
