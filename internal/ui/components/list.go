package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/ProtoLens/internal/report"
)

// Column is one table column; Width is in terminal cells
type Column struct {
	Title string
	Width int
}

// Row is one table row. Details are shown below the row while it is expanded.
type Row struct {
	Cells   []string
	Details []string
	Status  string
}

// Table is a navigable table whose rows expand independently. Expansion
// state lives in the ExpansionSet so it survives re-rendering.
type Table struct {
	Title    string
	Columns  []Column
	Rows     []Row
	Cursor   int
	Focused  bool
	Width    int
	Height   int
	Empty    string
	Palette  Palette
	expanded *report.ExpansionSet
}

// NewTable creates a table backed by expanded
func NewTable(title string, columns []Column, expanded *report.ExpansionSet) *Table {
	if expanded == nil {
		expanded = &report.ExpansionSet{}
	}
	return &Table{
		Title:    title,
		Columns:  columns,
		Empty:    report.NoData,
		Palette:  DefaultPalette(),
		expanded: expanded,
	}
}

// SetRows replaces the rows and resets the cursor
func (t *Table) SetRows(rows []Row) {
	t.Rows = rows
	t.Cursor = 0
}

// MoveUp moves selection up
func (t *Table) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves selection down
func (t *Table) MoveDown() {
	if t.Cursor < len(t.Rows)-1 {
		t.Cursor++
	}
}

// Toggle expands or collapses the selected row
func (t *Table) Toggle() {
	if len(t.Rows) == 0 {
		return
	}
	t.expanded.Toggle(t.Cursor)
}

// IsExpanded reports whether row i is expanded
func (t *Table) IsExpanded(i int) bool {
	return t.expanded.IsExpanded(i)
}

// Render renders the table
func (t *Table) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(t.Palette.Primary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.Palette.Muted)

	content := []string{headerStyle.Render(t.Title), ""}

	if len(t.Rows) == 0 {
		content = append(content, mutedStyle.Render(t.Empty))
		return lipgloss.JoinVertical(lipgloss.Left, content...)
	}

	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}

	content = append(content, headerStyle.Render("  "+t.line(t.columnTitles())))

	blocks := make([][]string, len(t.Rows))
	for i := range t.Rows {
		blocks[i] = t.renderRow(i)
	}

	start, end := t.visibleRange(blocks)
	for i := start; i < end; i++ {
		content = append(content, blocks[i]...)
	}

	if start > 0 || end < len(t.Rows) {
		content = append(content, "", mutedStyle.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(t.Rows))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func (t *Table) columnTitles() []string {
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	return titles
}

// line pads or truncates each cell to its column width
func (t *Table) line(cells []string) string {
	parts := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts = append(parts, fitCell(cell, c.Width))
	}
	return strings.Join(parts, " ")
}

func (t *Table) renderRow(i int) []string {
	row := t.Rows[i]
	selected := i == t.Cursor && t.Focused

	marker := "▸ "
	if t.expanded.IsExpanded(i) {
		marker = "▾ "
	}
	if len(row.Details) == 0 {
		marker = "  "
	}

	style := lipgloss.NewStyle().Foreground(t.Palette.status(row.Status))
	if selected {
		style = lipgloss.NewStyle().Background(t.Palette.Selected).Foreground(t.Palette.Primary).Bold(true)
	}

	lines := []string{style.Render(marker + t.line(row.Cells))}
	if t.expanded.IsExpanded(i) {
		detailStyle := lipgloss.NewStyle().Foreground(t.Palette.Secondary)
		width := t.Width - 6
		for _, d := range row.Details {
			if width > 0 {
				d = runewidth.Truncate(d, width, "…")
			}
			lines = append(lines, detailStyle.Render("    "+d))
		}
	}
	return lines
}

// visibleRange picks the rows that fit in Height lines while keeping the
// cursor row on screen
func (t *Table) visibleRange(blocks [][]string) (int, int) {
	if t.Height <= 0 {
		return 0, len(blocks)
	}
	room := t.Height - 4

	start := t.Cursor
	used := len(blocks[start])
	for start > 0 && used+len(blocks[start-1]) <= room {
		start--
		used += len(blocks[start])
	}

	end := t.Cursor + 1
	for end < len(blocks) && used+len(blocks[end]) <= room {
		used += len(blocks[end])
		end++
	}
	return start, end
}

func fitCell(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
