package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/session"
)

// handleEditorKey handles keyboard input while the editor is shown
func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "ctrl+r":
		return m, m.submit()
	case "ctrl+o":
		m.prompting = true
		m.pathInput.SetValue("")
		m.editor.Blur()
		return m, m.pathInput.Focus()
	case "ctrl+t":
		m.session.ShowAnalysis()
		return m, nil
	case "ctrl+q":
		return m.handleQuit()
	}

	if msg.Paste {
		if path, ok := droppedPath(string(msg.Runes)); ok {
			m.drop(path)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.session.SetText(m.editor.Value())
	return m, cmd
}

// handlePromptKey handles the open-file prompt
func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		m.closePrompt()
		if path != "" {
			m.drop(path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.pathInput.Blur()
	m.editor.Focus()
}

// drop loads path as if the file had been dropped on the editor. A
// rejected file leaves the editor text untouched.
func (m *Model) drop(path string) {
	if err := m.session.LoadPath(config.ExpandPath(path)); err != nil {
		m.logger.Debug("Drop of %s rejected: %v", path, err)
		return
	}
	m.editor.SetValue(m.session.Text())
	m.editor.CursorStart()
}

// droppedPath reports whether pasted text is a single path to an existing
// .py file, which terminals produce when a file is dragged onto them
func droppedPath(pasted string) (string, bool) {
	path := strings.TrimSpace(pasted)
	path = strings.Trim(path, `'"`)
	if path == "" || strings.ContainsAny(path, "\n\r") || !session.IsProtocolFile(path) {
		return "", false
	}
	path = config.ExpandPath(path)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

func (m *Model) renderEditor() string {
	icon := emoji.Lookup("procedure", m.opts.Emoji)
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("ProtoLens"),
		m.styles.Muted.Render(icon+" "+m.session.Filename()),
	)

	status := ""
	if m.session.InFlight() {
		status = m.spinner.View() + m.styles.Progress.Render(" Analyzing...")
	} else if m.session.Report() != nil {
		status = m.styles.Muted.Render("Last analysis ready (ctrl+t)")
	}

	bottom := m.renderHelp("ctrl+r analyze", "ctrl+o open .py", "ctrl+t results", "ctrl+c quit")
	if m.prompting {
		bottom = m.pathInput.View() + "\n" + m.renderHelp("enter load", "esc cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+status,
		m.editor.View(),
		m.renderError(),
		bottom,
	)
}
