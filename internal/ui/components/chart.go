package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/ProtoLens/internal/report"
)

// CommandChart draws the most frequent API commands as horizontal bars
type CommandChart struct {
	Title    string
	Commands []report.CommandStat
	Width    int
	Palette  Palette
}

// NewCommandChart keeps the top report.ChartLimit commands of cmds
func NewCommandChart(title string, cmds []report.CommandStat, width int) *CommandChart {
	return &CommandChart{
		Title:    title,
		Commands: report.TopCommands(cmds, report.ChartLimit),
		Width:    width,
		Palette:  DefaultPalette(),
	}
}

// Render renders the chart
func (c *CommandChart) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(c.Palette.Primary).Bold(true)
	barStyle := lipgloss.NewStyle().Foreground(c.Palette.Progress)
	mutedStyle := lipgloss.NewStyle().Foreground(c.Palette.Muted)

	content := []string{headerStyle.Render(c.Title), ""}
	if len(c.Commands) == 0 {
		content = append(content, mutedStyle.Render(report.NoData))
		return lipgloss.JoinVertical(lipgloss.Left, content...)
	}

	labelWidth := 0
	for _, cmd := range c.Commands {
		labelWidth = max(labelWidth, runewidth.StringWidth(cmd.Command))
	}
	labelWidth = min(labelWidth, 24)

	countWidth := len(fmt.Sprint(c.Commands[0].Count))
	barWidth := c.Width - labelWidth - countWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	maxCount := c.Commands[0].Count
	for _, cmd := range c.Commands {
		filled := 0
		if maxCount > 0 && cmd.Count > 0 {
			filled = max(1, cmd.Count*barWidth/maxCount)
		}
		line := fmt.Sprintf("%s %s%s %*d",
			fitCell(cmd.Command, labelWidth),
			barStyle.Render(strings.Repeat("█", filled)),
			mutedStyle.Render(strings.Repeat("░", barWidth-filled)),
			countWidth, cmd.Count)
		content = append(content, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

// TopCommandList renders the ranked command list shown beside the chart
func TopCommandList(title string, cmds []report.CommandStat, p Palette) string {
	headerStyle := lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(p.Secondary)

	top := report.TopCommands(cmds, report.ChartLimit)
	content := []string{headerStyle.Render(title), ""}
	if len(top) == 0 {
		content = append(content, bodyStyle.Render(report.NoData))
	}
	for i, cmd := range top {
		content = append(content, bodyStyle.Render(fmt.Sprintf("%2d. %s (%d)", i+1, cmd.Command, cmd.Count)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, content...)
}
