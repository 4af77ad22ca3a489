package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/ProtoLens/internal/report"
)

// ProcedureSection shows the summary while collapsed and the numbered
// steps while expanded
type ProcedureSection struct {
	Summary  string
	Steps    []string
	Expanded bool
	Width    int
	Palette  Palette
}

// NewProcedureSection creates a collapsed section for r
func NewProcedureSection(r *report.Report, width int) *ProcedureSection {
	return &ProcedureSection{
		Summary: r.Summary,
		Steps:   r.ProcedureSteps,
		Width:   width,
		Palette: DefaultPalette(),
	}
}

// Toggle flips between summary and steps
func (p *ProcedureSection) Toggle() {
	p.Expanded = !p.Expanded
}

// Render renders the section
func (p *ProcedureSection) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(p.Palette.Primary).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(p.Palette.Secondary)
	numberStyle := lipgloss.NewStyle().Foreground(p.Palette.Primary)
	wrap := lipgloss.NewStyle().Width(max(p.Width-4, 20))

	marker := "▸"
	if p.Expanded {
		marker = "▾"
	}
	content := []string{headerStyle.Render(marker + " Procedure (p)")}

	if !p.Expanded {
		summary := p.Summary
		if summary == "" {
			summary = report.NoProcedure
		}
		return lipgloss.JoinVertical(lipgloss.Left, append(content, bodyStyle.Inherit(wrap).Render(summary))...)
	}

	if len(p.Steps) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(content, bodyStyle.Render(report.NoProcedure))...)
	}
	for i, step := range p.Steps {
		text := step
		if p.Width > 8 {
			text = runewidth.Wrap(step, p.Width-8)
		}
		content = append(content, lipgloss.JoinHorizontal(lipgloss.Top,
			numberStyle.Render(report.StepNumber(i)+" "), bodyStyle.Render(text)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

// CustomActionList renders the deduplicated custom actions
func CustomActionList(title string, actions []report.CustomAction, width int, p Palette) string {
	headerStyle := lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	lineStyle := lipgloss.NewStyle().Foreground(p.Warning)
	bodyStyle := lipgloss.NewStyle().Foreground(p.Secondary)

	unique := report.UniqueCustomActions(actions)
	content := []string{headerStyle.Render(title)}
	if len(unique) == 0 {
		content = append(content, bodyStyle.Render(report.NoCustomActions))
		return lipgloss.JoinVertical(lipgloss.Left, content...)
	}
	for _, a := range unique {
		label := report.LineLabel(a)
		desc := a.Description
		if width > 0 {
			desc = runewidth.Truncate(desc, max(width-len(label)-4, 10), "…")
		}
		content = append(content, lineStyle.Render(label)+"  "+bodyStyle.Render(desc))
	}
	return lipgloss.JoinVertical(lipgloss.Left, content...)
}
