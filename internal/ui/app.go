package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/ProtoLens/internal/session"
	"github.com/yildizm/ProtoLens/internal/ui/components"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	chromeHeight  = 5 // header, tab bar and help line
)

// Model is the interactive shell: an editor for the protocol text and a
// tabbed analysis view over the last report
type Model struct {
	ctx      context.Context
	session  *session.Session
	analyzer session.Analyzer
	opts     Options
	logger   *logger.Logger
	styles   *Styles
	palette  components.Palette

	width  int
	height int

	// Editor state
	editor    textarea.Model
	pathInput textinput.Model
	prompting bool
	spinner   spinner.Model

	// Analysis state
	tab        Tab
	shown      *report.Report
	expansions report.Expansions
	tables     map[report.Table]*components.Table
	deck       *components.Table
	procedure  *components.ProcedureSection
	overview   viewport.Model
	viewer     *components.ReportViewer

	quitting bool
}

// NewModel creates the shell over s. Analysis calls go to a.
func NewModel(ctx context.Context, s *session.Session, a session.Analyzer, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.New("ui", nil)
	}
	if opts.Theme != "" && !SetThemeByName(opts.Theme) {
		log.Warn("Unknown theme %q, using %s (available: %s)", opts.Theme, GetTheme().Name,
			strings.Join(GetAvailableThemes(), ", "))
	}

	theme := activeTheme()
	styles := GetStyles()

	ta := textarea.New()
	ta.ShowLineNumbers = opts.LineNumbers
	ta.CharLimit = opts.CharLimit
	ta.MaxHeight = 0
	ta.SetValue(s.Text())
	ta.Focus()

	pi := textinput.New()
	pi.Placeholder = "path/to/protocol.py"
	pi.Prompt = "Open: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Progress

	m := &Model{
		ctx:       ctx,
		session:   s,
		analyzer:  a,
		opts:      opts,
		logger:    log,
		styles:    styles,
		palette:   theme.Palette(),
		editor:    ta,
		pathInput: pi,
		spinner:   sp,
		overview:  viewport.New(defaultWidth, defaultHeight-chromeHeight),
		viewer:    components.NewReportViewer(defaultWidth, defaultHeight-chromeHeight, opts.PlainReport),
		tables:    make(map[report.Table]*components.Table),
	}
	m.resize(defaultWidth, defaultHeight)

	if r := s.Report(); r != nil {
		m.loadReport(r)
	}
	return m
}

// Init starts the cursor blink and, when asked, the first analysis
func (m *Model) Init() tea.Cmd {
	if m.opts.AutoAnalyze {
		return tea.Batch(textarea.Blink, m.submit())
	}
	return textarea.Blink
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)
	case spinner.TickMsg:
		if !m.session.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.handleQuit()
		}
		if m.session.View() == session.AnalysisView {
			return m.handleAnalysisKey(msg)
		}
		return m.handleEditorKey(msg)
	}

	if m.session.View() == session.EditorView {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current screen
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Success.Render(emoji.Lookup("door", m.opts.Emoji)+" Bye!") + "\n"
	}
	if m.session.View() == session.AnalysisView {
		return m.renderAnalysis()
	}
	return m.renderEditor()
}

// submit begins a submission and returns the command that runs it. Blank
// text and a second submission while one is in flight are refused.
func (m *Model) submit() tea.Cmd {
	m.session.SetText(m.editor.Value())
	text, seq, ok := m.session.Begin()
	if !ok {
		return nil
	}
	m.logger.InfoWithFields("Analyzing protocol", []logger.Field{
		logger.F("file", m.session.Filename()),
		logger.F("seq", seq),
		logger.F("bytes", len(text)),
	})
	return tea.Batch(analyzeCmd(m.ctx, m.analyzer, text, seq), m.spinner.Tick)
}

func (m *Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.session.FailSeq(msg.seq, msg.err)
		return m, nil
	}
	if m.session.CompleteSeq(msg.seq, msg.report) {
		m.loadReport(msg.report)
	}
	return m, nil
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.editor.SetWidth(max(width-2, 20))
	m.editor.SetHeight(max(height-chromeHeight-2, 3))
	m.pathInput.Width = max(width-10, 20)

	bodyHeight := max(height-chromeHeight, 3)
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.viewer.SetSize(width, bodyHeight)

	for _, t := range m.tables {
		t.Width = width - 2
		t.Height = bodyHeight
	}
	if m.deck != nil {
		m.deck.Width = width - 2
		m.deck.Height = bodyHeight
	}
	if m.shown != nil {
		m.refreshOverview()
	}
}

// Run starts the interactive program and blocks until it exits
func Run(ctx context.Context, s *session.Session, a session.Analyzer, opts Options) error {
	model := NewModel(ctx, s, a, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) renderHelp(keys ...string) string {
	return m.styles.Muted.Render(strings.Join(keys, " • "))
}
