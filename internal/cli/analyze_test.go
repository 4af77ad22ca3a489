package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/ProtoLens/internal/ai"
	"github.com/yildizm/ProtoLens/internal/analyzer"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/session"
)

const protocolBody = "from opentrons import protocol_api\n\ndef run(ctx):\n    pass\n"

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name        string
		noTUI       bool
		verbose     bool
		format      string
		interactive bool
		expected    bool
	}{
		{name: "all conditions met", format: "text", interactive: true, expected: true},
		{name: "no-tui flag set", noTUI: true, format: "text", interactive: true},
		{name: "json output", format: "json", interactive: true},
		{name: "verbose mode", verbose: true, format: "text", interactive: true},
		{name: "not a terminal", format: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldNoTUI, oldVerbose := analyzeNoTUI, verbose
			defer func() { analyzeNoTUI, verbose = oldNoTUI, oldVerbose }()
			analyzeNoTUI, verbose = tt.noTUI, tt.verbose

			assert.Equal(t, tt.expected, shouldUseTUIMode(tt.format, tt.interactive))
		})
	}
}

func TestAnalyzePrintsReport(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")
	file := writeProtocol(t, t.TempDir(), "transfer.py", protocolBody)

	out, errOut, err := execute(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", file)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.callCount())
	assert.Equal(t, protocolBody, fake.texts[0])
	assert.Contains(t, out, `"channels": 8`)
	assert.Contains(t, out, `"total_aspirated_ul": 800`)
	assert.Contains(t, errOut, "Analysis complete")
}

func TestAnalyzeFailureIsGeneric(t *testing.T) {
	fake := &fakeAnalyzer{err: &analyzer.AnalysisError{Kind: analyzer.ErrMalformedResponse, Cause: errors.New("bad json")}}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")
	file := writeProtocol(t, t.TempDir(), "transfer.py", protocolBody)

	out, errOut, err := execute(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", file)
	require.Error(t, err)

	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Equal(t, session.MsgAnalysisFailed, err.Error())
	assert.Empty(t, out)
	assert.Contains(t, errOut, session.MsgAnalysisFailed)
	assert.NotContains(t, errOut, "bad json")
}

func TestAnalyzeRejectsNonPythonFile(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")
	file := writeProtocol(t, t.TempDir(), "script.txt", protocolBody)

	_, _, err := execute(t, "", "--config", cfg, "analyze", "--no-tui", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), session.MsgInvalidFile)
	assert.Zero(t, fake.callCount())
}

func TestAnalyzeReadsStdin(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	_, _, err := execute(t, protocolBody, "--config", cfg, "analyze", "--no-tui", "-o", "csv", "-")
	require.NoError(t, err)
	require.Equal(t, 1, fake.callCount())
	assert.Equal(t, protocolBody, fake.texts[0])
}

func TestAnalyzeBlankInputNeverSubmits(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	_, _, err := execute(t, "  \n\t\n", "--config", cfg, "analyze", "--no-tui", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	assert.Zero(t, fake.callCount())
}

func TestAnalyzeWithoutArgumentsUsesExample(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	out, _, err := execute(t, "", "--config", cfg, "--no-emoji", "analyze", "--no-tui", "-o", "markdown")
	require.NoError(t, err)
	require.Equal(t, 1, fake.callCount())
	assert.Equal(t, session.DefaultProtocol, fake.texts[0])
	assert.Contains(t, out, "# Protocol Analysis Report")
}

func TestAnalyzeOutputFile(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")
	dir := t.TempDir()
	file := writeProtocol(t, dir, "transfer.py", protocolBody)
	target := filepath.Join(dir, "report.json")

	out, _, err := execute(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", "--output-file", target, file)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_tip_pickups": 8`)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAnalyzeFlagsOverrideConfig(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	built := isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n  model: gemini-2.5-pro\n")

	_, _, err := execute(t, protocolBody, "--config", cfg, "analyze", "--no-tui",
		"--provider", "ollama", "--model", "llama3.1", "--timeout", "5s", "--theme", "minimal", "-")
	require.NoError(t, err)

	assert.Equal(t, "ollama", built.AI.Provider)
	assert.Equal(t, "llama3.1", built.AI.Model)
	assert.Equal(t, 5*time.Second, built.AI.Timeout)
	assert.Equal(t, "minimal", built.Output.Theme)
}

func TestAnalyzeRejectsUnknownTheme(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	_, _, err := execute(t, protocolBody, "--config", cfg, "analyze", "--no-tui", "--theme", "neon", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid theme")
	assert.Zero(t, fake.callCount())
}

func TestThemeFlagListsThemes(t *testing.T) {
	isolate(t, &fakeAnalyzer{})

	out, _, err := execute(t, "", "analyze", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "editor theme (default, high-contrast, minimal)")
}

func TestAnalyzeRejectsUnknownProvider(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	_, _, err := execute(t, protocolBody, "--config", cfg, "analyze", "--no-tui", "--provider", "nope", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid AI provider")
	assert.Zero(t, fake.callCount())
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	fake := &fakeAnalyzer{r: sampleReport()}
	isolate(t, fake)
	cfg := writeConfig(t, "ai:\n  provider: gemini\n")

	_, _, err := execute(t, protocolBody, "--config", cfg, "analyze", "--no-tui", "-o", "xml", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Zero(t, fake.callCount())
}

func TestBuildGateway(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "ollama"
	a, err := buildGateway(cfg)
	require.NoError(t, err)
	assert.IsType(t, &analyzer.Gateway{}, a)

	cfg = config.DefaultConfig()
	cfg.AI.Provider = "openai"
	_, err = buildGateway(cfg)
	require.Error(t, err)
	assert.True(t, ai.IsConfigurationError(err))

	cfg = config.DefaultConfig()
	cfg.AI.APIKey = "test-key"
	a, err = buildGateway(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestFailureKind(t *testing.T) {
	transport := &analyzer.AnalysisError{
		Kind:  analyzer.ErrTransport,
		Cause: ai.NewProviderError(ai.ErrTypeRateLimit, "slow down", "gemini"),
	}

	tests := []struct {
		err  error
		want string
	}{
		{&analyzer.AnalysisError{Kind: analyzer.ErrEmptyResponse}, "empty"},
		{&analyzer.AnalysisError{Kind: analyzer.ErrMalformedResponse}, "malformed"},
		{&analyzer.AnalysisError{Kind: analyzer.ErrSchemaMismatch}, "schema"},
		{transport, string(ai.ErrTypeRateLimit)},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, failureKind(tt.err), tt.err.Error())
	}
}

func TestFailureHint(t *testing.T) {
	wrap := func(errType ai.ErrorType) error {
		return &analyzer.AnalysisError{
			Kind:  analyzer.ErrTransport,
			Cause: ai.NewProviderError(errType, "failed", "gemini"),
		}
	}

	assert.Contains(t, failureHint(wrap(ai.ErrTypeRateLimit)), "rate limiting")
	assert.Contains(t, failureHint(wrap(ai.ErrTypeValidation)), "check the configured model")
	assert.Contains(t, failureHint(wrap(ai.ErrTypeConfiguration)), "ai section")
	assert.Contains(t, failureHint(wrap(ai.ErrTypeNetwork)), "next save")
	assert.Empty(t, failureHint(wrap(ai.ErrTypeAuthentication)))
	assert.Empty(t, failureHint(&analyzer.AnalysisError{Kind: analyzer.ErrSchemaMismatch}))
}

func TestExampleAndVersion(t *testing.T) {
	isolate(t, &fakeAnalyzer{})

	out, _, err := execute(t, "", "example")
	require.NoError(t, err)
	assert.Equal(t, session.DefaultProtocol, out)

	out, _, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ProtoLens test (abc123) built on today"))
}
