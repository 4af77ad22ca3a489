package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/ProtoLens/internal/session"
	"github.com/yildizm/ProtoLens/internal/ui"
)

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls int
	texts []string
	r     *report.Report
	err   error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	return f.r, f.err
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleReport() *report.Report {
	return &report.Report{
		Summary: "Transfers one column.",
		PipetteStats: []report.PipetteStat{{
			PipetteName:       "p300_multi_gen2",
			Mount:             "left",
			Channels:          8,
			AspiratedVolumeUL: 800,
			DispensedVolumeUL: 800,
			AspirateCount:     1,
			DispenseCount:     1,
		}},
		TotalAspiratedUL: 800,
		TotalDispensedUL: 800,
		TotalTipPickups:  8,
		APICommands:      []report.CommandStat{{Command: "aspirate", Count: 1}},
	}
}

// isolate restores package globals and display state after the test, and
// swaps in a to serve analyses
func isolate(t *testing.T, a session.Analyzer) *config.Config {
	t.Helper()

	prevAnalyzer := newAnalyzer
	prevConfirm := promptConfirm
	prevNoColor := color.NoColor
	prevEmoji := emoji.IsEmojiDisabled()

	var built config.Config
	newAnalyzer = func(cfg *config.Config) (session.Analyzer, error) {
		built = *cfg
		return a, nil
	}

	t.Cleanup(func() {
		newAnalyzer = prevAnalyzer
		promptConfirm = prevConfirm
		color.NoColor = prevNoColor
		emoji.SetEmojiDisabled(prevEmoji)
		ui.SetColorDisabled(false)
		cfgFile, verbose, noColor, noEmoji, outputFmt, logFile = "", false, false, false, "", ""
		analyzeNoTUI, analyzeOutputFile = false, ""
		analysisProvider, analysisModel, analysisTimeout, analysisTheme = "", "", 0, ""
		watchSummaryFormat = "text"
	})

	for _, name := range config.APIKeyEnvVars {
		t.Setenv(name, "")
	}
	return &built
}

// writeConfig writes a minimal config file and returns its path
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func writeProtocol(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand("test", "abc123", "today")
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
}
