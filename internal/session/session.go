// Package session holds the editor state: protocol text, the loaded filename,
// the current report and the in-flight flag for the single analysis call.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/report"
)

// User-facing messages
const (
	MsgInvalidFile    = "Please upload a valid .py Python protocol file."
	MsgUnreadableFile = "Could not read the protocol file. Check that it exists and is readable."
	MsgAnalysisFailed = "Failed to analyze protocol. Please check the code and try again."
)

// View is the screen the shell shows
type View int

const (
	EditorView View = iota
	AnalysisView
)

func (v View) String() string {
	if v == AnalysisView {
		return "analysis"
	}
	return "editor"
}

// Analyzer turns protocol text into a report with one outbound request
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*report.Report, error)
}

// Session is safe for concurrent use. The TUI reads it from the update loop
// while analysis runs in a command goroutine.
type Session struct {
	mu       sync.RWMutex
	text     string
	filename string
	report   *report.Report
	view     View
	inFlight bool
	errMsg   string
	seq      uint64
	logger   *logger.Logger
}

// New creates a session preloaded with the example protocol
func New(log *logger.Logger) *Session {
	if log == nil {
		log = logger.New("session", nil)
	}
	return &Session{
		text:     DefaultProtocol,
		filename: DefaultFilename,
		view:     EditorView,
		logger:   log,
	}
}

// Text returns the current protocol text
func (s *Session) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Filename returns the name shown in the editor header
func (s *Session) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// Report returns the last successful report, or nil
func (s *Session) Report() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// View returns the current view
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// InFlight reports whether an analysis call is outstanding
func (s *Session) InFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight
}

// Err returns the message shown on the editor error line
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// SetText replaces the protocol text verbatim
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// IsProtocolFile reports whether name carries the .py suffix
func IsProtocolFile(name string) bool {
	return strings.HasSuffix(filepath.Base(name), ".py")
}

// LoadFile accepts a dropped or selected file. Non-.py names are rejected
// and leave the text and filename untouched.
func (s *Session) LoadFile(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsProtocolFile(name) {
		s.errMsg = MsgInvalidFile
		s.logger.Warn("Rejected file %q", name)
		return fmt.Errorf("%s: %s", MsgInvalidFile, name)
	}

	s.text = string(content)
	s.filename = filepath.Base(name)
	s.errMsg = ""
	s.logger.Debug("Loaded %s (%d bytes)", s.filename, len(content))
	return nil
}

// LoadPath reads a file from disk and loads it
func (s *Session) LoadPath(path string) error {
	if !IsProtocolFile(path) {
		return s.LoadFile(path, nil)
	}

	content, err := readRegularFile(path)
	if err != nil {
		s.mu.Lock()
		s.errMsg = MsgUnreadableFile
		s.mu.Unlock()
		s.logger.WarnWithFields("Failed to read protocol file", []logger.Field{
			logger.F("path", path),
			logger.Error(err),
		})
		return err
	}
	return s.LoadFile(path, content)
}

func readRegularFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", cleanPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", cleanPath)
	}
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cleanPath, err)
	}
	return content, nil
}

// Begin starts a submission. It refuses blank text and a second submission
// while one is in flight. The returned sequence number identifies this
// submission for CompleteSeq and FailSeq.
func (s *Session) Begin() (text string, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight || strings.TrimSpace(s.text) == "" {
		return "", s.seq, false
	}
	s.seq++
	s.inFlight = true
	s.errMsg = ""
	return s.text, s.seq, true
}

// Complete stores r and switches to the analysis view
func (s *Session) Complete(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete(r)
}

// CompleteSeq completes submission seq. A result for an older submission
// is dropped and false is returned.
func (s *Session) CompleteSeq(seq uint64, r *report.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("Dropping stale result %d (current %d)", seq, s.seq)
		return false
	}
	s.complete(r)
	return true
}

func (s *Session) complete(r *report.Report) {
	s.report = r
	s.view = AnalysisView
	s.inFlight = false
	s.errMsg = ""
}

// Fail records a failed submission with the one generic message. The view
// and any previous report are kept. The cause is logged only.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail(err)
}

// FailSeq fails submission seq, ignoring stale submissions
func (s *Session) FailSeq(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("Dropping stale failure %d (current %d)", seq, s.seq)
		return false
	}
	s.fail(err)
	return true
}

func (s *Session) fail(err error) {
	s.inFlight = false
	s.errMsg = MsgAnalysisFailed
	s.logger.ErrorWithFields("Analysis failed", []logger.Field{logger.Error(err)})
}

// Submit runs one full submission synchronously. It returns false without
// calling the analyzer when Begin refuses.
func (s *Session) Submit(ctx context.Context, a Analyzer) bool {
	text, seq, ok := s.Begin()
	if !ok {
		return false
	}

	r, err := a.Analyze(ctx, text)
	if err != nil {
		s.FailSeq(seq, err)
		return true
	}
	s.CompleteSeq(seq, r)
	return true
}

// ShowEditor switches to the editor view
func (s *Session) ShowEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = EditorView
}

// ShowAnalysis switches to the analysis view. Without a report the view
// shows the no-analysis placeholder.
func (s *Session) ShowAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = AnalysisView
}

// ClearError dismisses the editor error line
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}
