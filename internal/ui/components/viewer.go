package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ReportViewer shows rendered Markdown in a scrollable viewport
type ReportViewer struct {
	viewport viewport.Model
	source   string
	width    int
	plain    bool
}

// NewReportViewer creates a viewer. With plain set the Markdown is shown
// as-is instead of being styled.
func NewReportViewer(width, height int, plain bool) *ReportViewer {
	return &ReportViewer{
		viewport: viewport.New(width, height),
		width:    width,
		plain:    plain,
	}
}

// SetMarkdown renders src and resets the scroll position
func (v *ReportViewer) SetMarkdown(src string) {
	v.source = src
	v.viewport.SetContent(v.render())
	v.viewport.GotoTop()
}

// SetSize resizes the viewport and re-wraps the content
func (v *ReportViewer) SetSize(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = height
	if width != v.width {
		v.width = width
		v.viewport.SetContent(v.render())
	}
}

func (v *ReportViewer) render() string {
	if v.plain || v.source == "" {
		return v.source
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(v.width-2, 20)),
	)
	if err != nil {
		return v.source
	}
	out, err := renderer.Render(v.source)
	if err != nil {
		return v.source
	}
	return out
}

// Update scrolls the viewport
func (v *ReportViewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// ScrollPercent reports how far the viewport is scrolled
func (v *ReportViewer) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}

// View renders the viewport
func (v *ReportViewer) View() string {
	return v.viewport.View()
}
