package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/ProtoLens/internal/session"
)

// analysisDoneMsg carries the result of submission seq back to the update loop
type analysisDoneMsg struct {
	seq    uint64
	report *report.Report
	err    error
}

// analyzeCmd runs one analysis call off the update loop
func analyzeCmd(ctx context.Context, a session.Analyzer, text string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		r, err := a.Analyze(ctx, text)
		return analysisDoneMsg{seq: seq, report: r, err: err}
	}
}
