package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/formatter"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/ProtoLens/internal/ui/components"
)

var tabTables = map[Tab]report.Table{
	TabPipettes: report.PipetteTable,
	TabTips:     report.TipTable,
	TabAux:      report.AuxTable,
	TabModules:  report.ModuleTable,
	TabAxes:     report.AxisTable,
}

// loadReport rebuilds every section for r. Row indices refer to the new
// rows, so expansion state starts over.
func (m *Model) loadReport(r *report.Report) {
	m.shown = r
	m.tab = TabOverview
	m.expansions.Reset()

	m.tables = map[report.Table]*components.Table{
		report.PipetteTable: m.newTable("Liquid & Pipettes", report.PipetteTable, pipetteColumns, pipetteRows(r.PipetteStats)),
		report.TipTable:     m.newTable("Tip Usage", report.TipTable, tipColumns, tipRows(r.TipUsageBreakdown)),
		report.AuxTable:     m.newTable("Auxiliary Motions", report.AuxTable, auxColumns, auxRows(r.AuxiliaryMotions)),
		report.ModuleTable:  m.newTable("Modules", report.ModuleTable, moduleColumns, moduleRows(r.ModuleStats)),
		report.AxisTable:    m.newTable("Mechanical Breakdown", report.AxisTable, axisColumns, axisRows(r.Axes)),
	}
	m.tables[report.TipTable].Empty = report.NoTipUsage

	m.deck = components.NewTable("Deck Layout", deckColumns, nil)
	m.deck.Palette = m.palette
	m.deck.SetRows(deckRows(r))

	m.procedure = components.NewProcedureSection(r, m.width)
	m.procedure.Palette = m.palette

	md, err := formatter.NewMarkdown().Format(r)
	if err != nil {
		m.logger.Warn("Failed to render report: %v", err)
	}
	m.viewer.SetMarkdown(string(md))

	m.resize(m.width, m.height)
	m.syncFocus()
}

func (m *Model) newTable(title string, t report.Table, columns []components.Column, rows []components.Row) *components.Table {
	table := components.NewTable(title, columns, m.expansions.For(t))
	table.Palette = m.palette
	table.SetRows(rows)
	return table
}

// refreshOverview re-renders the overview page into its viewport
func (m *Model) refreshOverview() {
	r := m.shown
	width := max(m.width-2, 40)
	icon := func(key string) string { return emoji.Lookup(key, m.opts.Emoji) }

	dashboard := components.NewStatsDashboard(2)
	liquid := components.NewStatsCard("Total Liquid Moved", report.FormatUL(r.TotalAspiratedUL),
		"Dispensed: "+report.FormatUL(r.TotalDispensedUL)).SetIcon(icon("pipette"))
	tips := components.NewStatsCard("Total Tip Pickups", fmt.Sprintf("%d", r.TotalTipPickups), "").
		SetIcon(icon("tip")).SetStatus("success")
	for _, c := range []*components.StatsCard{liquid, tips} {
		c.Palette = m.palette
		dashboard.AddCard(c)
	}

	m.procedure.Width = width

	chart := components.NewCommandChart(icon("commands")+" Top 10 API Command Frequency", r.APICommands, width/2)
	chart.Palette = m.palette
	commands := components.TopCommandList(icon("number")+" Top Commands", r.APICommands, m.palette)

	var charts string
	if width >= 90 {
		charts = lipgloss.JoinHorizontal(lipgloss.Top, chart.Render(), "    ", commands)
	} else {
		chart.Width = width
		charts = lipgloss.JoinVertical(lipgloss.Left, chart.Render(), "", commands)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		dashboard.Render(),
		"",
		m.procedure.Render(),
		"",
		components.CustomActionList(icon("custom")+" Custom Actions", r.CustomActions, width, m.palette),
		"",
		charts,
	)
	m.overview.SetContent(content)
}

// visibleTabs hides the modules tab when the report has no module stats
func (m *Model) visibleTabs() []Tab {
	tabs := make([]Tab, 0, len(tabNames))
	for t := TabOverview; t <= TabReport; t++ {
		if t == TabModules && !m.shown.HasModuleStats() {
			continue
		}
		tabs = append(tabs, t)
	}
	return tabs
}

func (m *Model) moveTab(delta int) {
	tabs := m.visibleTabs()
	idx := 0
	for i, t := range tabs {
		if t == m.tab {
			idx = i
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	m.tab = tabs[idx]
	m.syncFocus()
}

// syncFocus marks only the table on the current tab as focused
func (m *Model) syncFocus() {
	for t, table := range m.tables {
		table.Focused = tabTables[m.tab] == t && m.tab != TabOverview && m.tab != TabDeck && m.tab != TabReport
	}
}

func (m *Model) currentTable() *components.Table {
	t, ok := tabTables[m.tab]
	if !ok {
		return nil
	}
	return m.tables[t]
}

// handleAnalysisKey handles keyboard input on the analysis view
func (m *Model) handleAnalysisKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m.handleQuit()
	case "e", "esc":
		m.session.ShowEditor()
		return m, nil
	}

	if m.shown == nil {
		return m, nil
	}

	switch key {
	case "tab", "right", "l":
		m.moveTab(1)
		return m, nil
	case "shift+tab", "left", "h":
		m.moveTab(-1)
		return m, nil
	case "p":
		m.procedure.Toggle()
		m.refreshOverview()
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8":
		tabs := m.visibleTabs()
		if i := int(key[0] - '1'); i < len(tabs) {
			m.tab = tabs[i]
			m.syncFocus()
		}
		return m, nil
	}

	if table := m.currentTable(); table != nil {
		switch key {
		case "up", "k":
			table.MoveUp()
		case "down", "j":
			table.MoveDown()
		case "enter", " ":
			table.Toggle()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case TabReport:
		cmd = m.viewer.Update(msg)
	}
	return m, cmd
}

func (m *Model) renderAnalysis() string {
	if m.shown == nil {
		box := lipgloss.JoinVertical(lipgloss.Center,
			m.styles.Header.Render(report.NoAnalysis),
			"",
			m.styles.Muted.Render("Return to Editor (e)"),
			m.renderError(),
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Box.Render(box))
	}

	var body string
	switch m.tab {
	case TabOverview:
		body = m.overview.View()
	case TabDeck:
		body = m.deck.Render()
	case TabReport:
		body = m.viewer.View()
	default:
		body = m.currentTable().Render()
	}

	help := []string{"tab/shift+tab switch", "e editor", "q quit"}
	switch {
	case m.currentTable() != nil:
		help = append([]string{"↑↓ select", "enter expand"}, help...)
	case m.tab == TabOverview:
		help = append([]string{"p procedure", "↑↓ scroll"}, help...)
	case m.tab == TabReport:
		help = append([]string{"↑↓ scroll"}, help...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabBar(),
		m.renderError(),
		lipgloss.NewStyle().Height(max(m.height-chromeHeight, 3)).MaxHeight(max(m.height-chromeHeight, 3)).Render(body),
		m.renderHelp(help...),
	)
}

func (m *Model) renderTabBar() string {
	tabs := m.visibleTabs()
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, m.styles.Title.Render("ProtoLens"))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, m.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Table layouts

var pipetteColumns = []components.Column{
	{Title: "Pipette", Width: 22}, {Title: "Mount", Width: 6}, {Title: "Ch", Width: 3},
	{Title: "Tip", Width: 26}, {Title: "Aspirated", Width: 12}, {Title: "Dispensed", Width: 12},
	{Title: "Asp/Disp", Width: 9}, {Title: "Mix", Width: 4}, {Title: "Blow", Width: 4},
}

func pipetteRows(stats []report.PipetteStat) []components.Row {
	rows := make([]components.Row, 0, len(stats))
	for _, p := range stats {
		channels := report.Channels(p)
		details := make([]string, 0, len(p.Logs))
		for i, log := range p.Logs {
			line := fmt.Sprintf("%s %s", report.StepNumber(i), log.Description)
			if log.VolumeUL != nil {
				line += fmt.Sprintf("  %s/tip  %s total",
					report.FormatUL(report.PerTipVolume(log)),
					report.FormatUL(report.TotalVolume(log, channels)))
			}
			if loc := report.LogLocation(log, ""); loc != "" {
				line += "  @ " + loc
			}
			details = append(details, line)
		}
		rows = append(rows, components.Row{
			Cells: []string{
				p.PipetteName, p.Mount, fmt.Sprintf("%d", channels), p.TipType,
				report.FormatUL(p.AspiratedVolumeUL), report.FormatUL(p.DispensedVolumeUL),
				fmt.Sprintf("%d/%d", p.AspirateCount, p.DispenseCount),
				fmt.Sprintf("%d", p.MixCount), fmt.Sprintf("%d", p.BlowoutCount),
			},
			Details: details,
			Status:  "info",
		})
	}
	return rows
}

var tipColumns = []components.Column{{Title: "Tip Rack", Width: 40}, {Title: "Tips", Width: 8}}

func tipRows(usage []report.TipUsage) []components.Row {
	rows := make([]components.Row, 0, len(usage))
	for _, t := range usage {
		rows = append(rows, components.Row{
			Cells:   []string{t.TipRack, fmt.Sprintf("%d", t.Count)},
			Details: logLines(t.Logs, ""),
		})
	}
	return rows
}

var auxColumns = []components.Column{
	{Title: "Action", Width: 14}, {Title: "Count", Width: 6}, {Title: "Tip Status", Width: 12},
	{Title: "Tip Type", Width: 26}, {Title: "Volume", Width: 10},
}

func auxRows(motions []report.AuxMotion) []components.Row {
	rows := make([]components.Row, 0, len(motions))
	for _, a := range motions {
		status := ""
		if report.TipMissing(a.TipStatus) {
			status = "warning"
		}
		rows = append(rows, components.Row{
			Cells: []string{
				report.ActionTitle(a.Action), fmt.Sprintf("%d", a.Count), a.TipStatus,
				a.TipType, report.VolumeLabel(a.VolumeUL),
			},
			Details: logLines(a.Logs, ""),
			Status:  status,
		})
	}
	return rows
}

var moduleColumns = []components.Column{
	{Title: "Module", Width: 24}, {Title: "Slot", Width: 5}, {Title: "Model", Width: 22},
	{Title: "Lid", Width: 8}, {Title: "Latch", Width: 8}, {Title: "Temp", Width: 5}, {Title: "Engage", Width: 6},
}

func moduleRows(stats []report.ModuleStat) []components.Row {
	rows := make([]components.Row, 0, len(stats))
	for _, s := range stats {
		details := make([]string, 0, len(s.Actions)+len(s.Logs))
		for _, a := range s.Actions {
			line := fmt.Sprintf("%s x%d", a.Type, a.Count)
			if a.Details != "" {
				line += ": " + a.Details
			}
			details = append(details, line)
		}
		details = append(details, logLines(s.Logs, "Slot "+s.Slot)...)
		rows = append(rows, components.Row{
			Cells: []string{
				s.ModuleName, s.Slot, s.Model,
				report.OpenClose(s.LidOpenCount, s.LidCloseCount),
				report.OpenClose(s.LatchOpenCount, s.LatchCloseCount),
				fmt.Sprintf("%d", s.TempChangeCount), fmt.Sprintf("%d", s.EngagementsCount),
			},
			Details: details,
		})
	}
	return rows
}

var axisColumns = []components.Column{{Title: "Axis", Width: 28}, {Title: "Moves", Width: 8}, {Title: "Homes", Width: 8}}

func axisRows(axes []report.AxisStat) []components.Row {
	rows := make([]components.Row, 0, len(axes))
	for _, a := range axes {
		rows = append(rows, components.Row{
			Cells:   []string{a.Axis, fmt.Sprintf("%d", a.MovementCount), fmt.Sprintf("%d", a.HomingCount)},
			Details: logLines(a.Actions, ""),
		})
	}
	return rows
}

var deckColumns = []components.Column{
	{Title: "Slot", Width: 5}, {Title: "Name", Width: 28}, {Title: "Model", Width: 40}, {Title: "Kind", Width: 8},
}

func deckRows(r *report.Report) []components.Row {
	rows := make([]components.Row, 0, len(r.Labware)+len(r.Modules))
	for _, l := range r.Labware {
		rows = append(rows, components.Row{Cells: []string{l.Slot, l.Name, l.Model, "labware"}})
	}
	for _, mod := range r.Modules {
		rows = append(rows, components.Row{Cells: []string{mod.Slot, mod.Name, mod.Model, "module"}, Status: "info"})
	}
	return rows
}

// logLines numbers log entries; fallback stands in for a missing location
func logLines(logs []report.ActionLog, fallback string) []string {
	lines := make([]string, 0, len(logs))
	for i, log := range logs {
		parts := []string{report.StepNumber(i), log.Description}
		if log.VolumeUL != nil {
			parts = append(parts, report.FormatUL(*log.VolumeUL))
		}
		if loc := report.LogLocation(log, fallback); loc != "" {
			parts = append(parts, "@ "+loc)
		}
		if log.Details != "" {
			parts = append(parts, "("+log.Details+")")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

// renderError shows the session error, or nothing. A failure that lands
// while the results are open keeps the previous report on screen.
func (m *Model) renderError() string {
	msg := m.session.Err()
	if msg == "" {
		return ""
	}
	return m.styles.Error.Render(emoji.Lookup("error", m.opts.Emoji) + " " + msg)
}
