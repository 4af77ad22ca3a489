package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts  *termfmt.TerminalOptions
	emoji bool
	width int
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	width := o.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return &terminalFormatter{opts: opts, emoji: o.Emoji, width: width}
}

func (f *terminalFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, errNoReport
	}

	var b strings.Builder

	f.writeHeader(&b)
	f.writeOverview(&b, r)
	f.writeProcedure(&b, r)
	f.writeCustomActions(&b, r)
	f.writePipettes(&b, r)
	f.writeTips(&b, r)
	f.writeAux(&b, r)
	if r.HasModuleStats() {
		f.writeModules(&b, r)
	}
	f.writeAxes(&b, r)
	f.writeDeck(&b, r)
	f.writeCommandChart(&b, r.APICommands)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) symbol(key string) string {
	return emoji.Lookup(key, f.emoji)
}

func (f *terminalFormatter) section(b *strings.Builder, key, title string) {
	b.WriteString(f.symbol(key) + " " + title + "\n")
}

func (f *terminalFormatter) tree(b *strings.Builder, items []termfmt.TreeItem) {
	if len(items) == 0 {
		b.WriteString("└─ " + report.NoData + "\n\n")
		return
	}
	items[len(items)-1].Last = true
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) cell(s string) string {
	return truncate(oneLine(s), f.width)
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Protocol Analysis"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeOverview(b *strings.Builder, r *report.Report) {
	f.section(b, "summary", "Overview")
	f.tree(b, []termfmt.TreeItem{
		{
			Label: "Total Liquid Moved",
			Value: formatVolume(r.TotalAspiratedUL),
			Children: []termfmt.TreeItem{
				{Label: "Dispensed", Value: formatVolume(r.TotalDispensedUL), Last: true},
			},
		},
		{Label: "Total Tip Pickups", Value: formatNumber(r.TotalTipPickups)},
	})
}

func (f *terminalFormatter) writeProcedure(b *strings.Builder, r *report.Report) {
	f.section(b, "procedure", "Procedure")
	if r.Summary != "" {
		b.WriteString(r.Summary + "\n\n")
	}
	if len(r.ProcedureSteps) == 0 {
		b.WriteString(report.NoProcedure + "\n\n")
		return
	}
	for i, step := range r.ProcedureSteps {
		fmt.Fprintf(b, "  %s %s\n", report.StepNumber(i), step)
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeCustomActions(b *strings.Builder, r *report.Report) {
	f.section(b, "custom", "Custom Actions")
	actions := report.UniqueCustomActions(r.CustomActions)
	if len(actions) == 0 {
		b.WriteString(report.NoCustomActions + "\n\n")
		return
	}
	items := make([]termfmt.TreeItem, 0, len(actions))
	for _, a := range actions {
		items = append(items, termfmt.TreeItem{Label: report.LineLabel(a), Value: f.cell(a.Description)})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writePipettes(b *strings.Builder, r *report.Report) {
	f.section(b, "pipette", "Liquid & Pipettes")
	items := make([]termfmt.TreeItem, 0, len(r.PipetteStats))
	for _, p := range r.PipetteStats {
		channels := report.Channels(p)
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%s (%s)", p.PipetteName, p.Mount),
			Value: fmt.Sprintf("%d ch, %s", channels, p.TipType),
			Children: []termfmt.TreeItem{
				{Label: "Aspirated", Value: fmt.Sprintf("%s in %d steps", formatVolume(p.AspiratedVolumeUL), p.AspirateCount)},
				{Label: "Dispensed", Value: fmt.Sprintf("%s in %d steps", formatVolume(p.DispensedVolumeUL), p.DispenseCount)},
				{Label: "Mix / Blowout", Value: fmt.Sprintf("%d / %d", p.MixCount, p.BlowoutCount)},
				{Label: "Logged actions", Value: formatNumber(len(p.Logs)), Last: true},
			},
		})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writeTips(b *strings.Builder, r *report.Report) {
	f.section(b, "tip", "Tip Usage")
	if len(r.TipUsageBreakdown) == 0 {
		b.WriteString(report.NoTipUsage + "\n\n")
		return
	}
	items := make([]termfmt.TreeItem, 0, len(r.TipUsageBreakdown))
	for _, t := range r.TipUsageBreakdown {
		items = append(items, termfmt.TreeItem{Label: t.TipRack, Value: formatNumber(t.Count) + " tips"})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writeAux(b *strings.Builder, r *report.Report) {
	f.section(b, "aux", "Auxiliary Motions")
	items := make([]termfmt.TreeItem, 0, len(r.AuxiliaryMotions))
	for _, m := range r.AuxiliaryMotions {
		status := m.TipStatus
		if report.TipMissing(status) {
			status = f.symbol("warning") + " " + status
		}
		items = append(items, termfmt.TreeItem{
			Label: report.ActionTitle(m.Action),
			Value: fmt.Sprintf("%dx, %s, %s", m.Count, status, report.VolumeLabel(m.VolumeUL)),
		})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writeModules(b *strings.Builder, r *report.Report) {
	f.section(b, "module", "Modules")
	items := make([]termfmt.TreeItem, 0, len(r.ModuleStats))
	for _, m := range r.ModuleStats {
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%s (slot %s)", m.ModuleName, m.Slot),
			Value: m.Model,
			Children: []termfmt.TreeItem{
				{Label: "Lid open / close", Value: report.OpenClose(m.LidOpenCount, m.LidCloseCount)},
				{Label: "Latch open / close", Value: report.OpenClose(m.LatchOpenCount, m.LatchCloseCount)},
				{Label: "Temperature changes", Value: formatNumber(m.TempChangeCount)},
				{Label: "Engagements", Value: formatNumber(m.EngagementsCount), Last: true},
			},
		})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writeAxes(b *strings.Builder, r *report.Report) {
	f.section(b, "axis", "Mechanical Breakdown")
	items := make([]termfmt.TreeItem, 0, len(r.Axes))
	for _, a := range r.Axes {
		items = append(items, termfmt.TreeItem{
			Label: a.Axis,
			Value: fmt.Sprintf("%s moves, %s homes", formatNumber(a.MovementCount), formatNumber(a.HomingCount)),
		})
	}
	f.tree(b, items)
}

func (f *terminalFormatter) writeDeck(b *strings.Builder, r *report.Report) {
	f.section(b, "deck", "Deck Layout")
	items := make([]termfmt.TreeItem, 0, len(r.Labware)+len(r.Modules))
	for _, l := range r.Labware {
		items = append(items, termfmt.TreeItem{Label: "Slot " + l.Slot, Value: f.cell(l.Name + " (" + l.Model + ")")})
	}
	for _, m := range r.Modules {
		items = append(items, termfmt.TreeItem{Label: "Slot " + m.Slot, Value: f.cell(m.Name + " (" + m.Model + ") module")})
	}
	f.tree(b, items)
}

// writeCommandChart draws the most frequent commands as bars scaled to the top count
func (f *terminalFormatter) writeCommandChart(b *strings.Builder, cmds []report.CommandStat) {
	f.section(b, "commands", "Top 10 API Command Frequency")
	top := report.TopCommands(cmds, report.ChartLimit)
	if len(top) == 0 {
		b.WriteString(report.NoData + "\n")
		return
	}

	maxCount := top[0].Count
	nameWidth := 0
	for _, c := range top {
		if len(c.Command) > nameWidth {
			nameWidth = len(c.Command)
		}
	}

	for _, c := range top {
		ratio := 0.0
		if maxCount > 0 {
			ratio = float64(c.Count) / float64(maxCount)
		}
		fmt.Fprintf(b, "  %-*s %s %d\n", nameWidth, c.Command, termfmt.CreateConfidenceBar(ratio, f.opts), c.Count)
	}
}
