package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/ProtoLens/internal/report"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, errNoReport
	}
	return []byte(f.render(r)), nil
}

func (f *markdownFormatter) render(r *report.Report) string {
	var b strings.Builder

	b.WriteString("# Protocol Analysis Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05")))

	f.writeTableOfContents(&b, r)
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
	f.writeCommands(&b, r)

	return b.String()
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, r *report.Report) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Overview](#overview)\n")
	b.WriteString("- [Procedure](#procedure)\n")
	b.WriteString("- [Custom Actions](#custom-actions)\n")
	b.WriteString("- [Liquid & Pipettes](#liquid--pipettes)\n")
	b.WriteString("- [Tip Usage](#tip-usage)\n")
	b.WriteString("- [Auxiliary Motions](#auxiliary-motions)\n")
	if r.HasModuleStats() {
		b.WriteString("- [Modules](#modules)\n")
	}
	b.WriteString("- [Mechanical Breakdown](#mechanical-breakdown)\n")
	b.WriteString("- [Deck Layout](#deck-layout)\n")
	b.WriteString("- [API Commands](#api-commands)\n\n")
}

func (f *markdownFormatter) writeOverview(b *strings.Builder, r *report.Report) {
	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Total Aspirated | %s |\n", formatVolume(r.TotalAspiratedUL)))
	b.WriteString(fmt.Sprintf("| Total Dispensed | %s |\n", formatVolume(r.TotalDispensedUL)))
	b.WriteString(fmt.Sprintf("| Total Tip Pickups | %s |\n\n", formatNumber(r.TotalTipPickups)))
}

func (f *markdownFormatter) writeProcedure(b *strings.Builder, r *report.Report) {
	b.WriteString("## Procedure\n\n")
	if r.Summary != "" {
		b.WriteString("> " + oneLine(r.Summary) + "\n\n")
	}
	if len(r.ProcedureSteps) == 0 {
		b.WriteString("_" + report.NoProcedure + "_\n\n")
		return
	}
	for i, step := range r.ProcedureSteps {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, oneLine(step)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeCustomActions(b *strings.Builder, r *report.Report) {
	b.WriteString("## Custom Actions\n\n")
	actions := report.UniqueCustomActions(r.CustomActions)
	if len(actions) == 0 {
		b.WriteString("_" + report.NoCustomActions + "_\n\n")
		return
	}
	b.WriteString("| Line | Override |\n")
	b.WriteString("|------|----------|\n")
	for _, a := range actions {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", report.LineLabel(a), mdCell(a.Description)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writePipettes(b *strings.Builder, r *report.Report) {
	b.WriteString("## Liquid & Pipettes\n\n")
	if len(r.PipetteStats) == 0 {
		b.WriteString("_" + report.NoData + "_\n\n")
		return
	}
	b.WriteString("| Pipette | Mount | Channels | Tip | Aspirated | Dispensed | Asp | Disp | Mix | Blowout |\n")
	b.WriteString("|---------|-------|----------|-----|-----------|-----------|-----|------|-----|---------|\n")
	for _, p := range r.PipetteStats {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s | %s | %d | %d | %d | %d |\n",
			mdCell(p.PipetteName), mdCell(p.Mount), report.Channels(p), mdCell(p.TipType),
			formatVolume(p.AspiratedVolumeUL), formatVolume(p.DispensedVolumeUL),
			p.AspirateCount, p.DispenseCount, p.MixCount, p.BlowoutCount))
	}
	b.WriteString("\n")

	for _, p := range r.PipetteStats {
		if len(p.Logs) == 0 {
			continue
		}
		channels := report.Channels(p)
		b.WriteString(fmt.Sprintf("### %s (%s)\n\n", p.PipetteName, p.Mount))
		b.WriteString("| # | Action | Per Tip | Total | Location |\n")
		b.WriteString("|---|--------|---------|-------|----------|\n")
		for i, log := range p.Logs {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n", i+1,
				mdCell(log.Description),
				report.FormatUL(report.PerTipVolume(log)),
				report.FormatUL(report.TotalVolume(log, channels)),
				mdCell(report.LogLocation(log, "-"))))
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeTips(b *strings.Builder, r *report.Report) {
	b.WriteString("## Tip Usage\n\n")
	if len(r.TipUsageBreakdown) == 0 {
		b.WriteString("_" + report.NoTipUsage + "_\n\n")
		return
	}
	b.WriteString("| Tip Rack | Tips Used |\n")
	b.WriteString("|----------|-----------|\n")
	for _, t := range r.TipUsageBreakdown {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", mdCell(t.TipRack), formatNumber(t.Count)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeAux(b *strings.Builder, r *report.Report) {
	b.WriteString("## Auxiliary Motions\n\n")
	if len(r.AuxiliaryMotions) == 0 {
		b.WriteString("_" + report.NoData + "_\n\n")
		return
	}
	b.WriteString("| Action | Count | Tip Status | Tip Type | Volume |\n")
	b.WriteString("|--------|-------|------------|----------|--------|\n")
	for _, m := range r.AuxiliaryMotions {
		status := mdCell(m.TipStatus)
		if report.TipMissing(m.TipStatus) {
			status = "**" + status + "**"
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
			report.ActionTitle(m.Action), m.Count, status, mdCell(m.TipType), report.VolumeLabel(m.VolumeUL)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeModules(b *strings.Builder, r *report.Report) {
	b.WriteString("## Modules\n\n")
	b.WriteString("| Module | Slot | Model | Lid | Latch | Temp Changes | Engagements |\n")
	b.WriteString("|--------|------|-------|-----|-------|--------------|-------------|\n")
	for _, m := range r.ModuleStats {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d | %d |\n",
			mdCell(m.ModuleName), mdCell(m.Slot), mdCell(m.Model),
			report.OpenClose(m.LidOpenCount, m.LidCloseCount),
			report.OpenClose(m.LatchOpenCount, m.LatchCloseCount),
			m.TempChangeCount, m.EngagementsCount))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeAxes(b *strings.Builder, r *report.Report) {
	b.WriteString("## Mechanical Breakdown\n\n")
	if len(r.Axes) == 0 {
		b.WriteString("_" + report.NoData + "_\n\n")
		return
	}
	b.WriteString("| Axis | Movements | Homing |\n")
	b.WriteString("|------|-----------|--------|\n")
	for _, a := range r.Axes {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", mdCell(a.Axis), formatNumber(a.MovementCount), formatNumber(a.HomingCount)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeDeck(b *strings.Builder, r *report.Report) {
	b.WriteString("## Deck Layout\n\n")
	if len(r.Labware)+len(r.Modules) == 0 {
		b.WriteString("_" + report.NoData + "_\n\n")
		return
	}
	b.WriteString("| Slot | Name | Model | Kind |\n")
	b.WriteString("|------|------|-------|------|\n")
	for _, l := range r.Labware {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | labware |\n", mdCell(l.Slot), mdCell(l.Name), mdCell(l.Model)))
	}
	for _, m := range r.Modules {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | module |\n", mdCell(m.Slot), mdCell(m.Name), mdCell(m.Model)))
	}
	b.WriteString("\n")
}

// writeCommands renders the top commands as a table with a text bar column
func (f *markdownFormatter) writeCommands(b *strings.Builder, r *report.Report) {
	b.WriteString("## API Commands\n\n")
	top := report.TopCommands(r.APICommands, report.ChartLimit)
	if len(top) == 0 {
		b.WriteString("_" + report.NoData + "_\n")
		return
	}
	b.WriteString("| Rank | Command | Count | Share |\n")
	b.WriteString("|------|---------|-------|-------|\n")
	maxCount := top[0].Count
	for i, c := range top {
		bar := ""
		if maxCount > 0 && c.Count > 0 {
			bar = strings.Repeat("█", (c.Count*10+maxCount-1)/maxCount)
		}
		b.WriteString(fmt.Sprintf("| %d | `%s` | %d | %s |\n", i+1, mdCell(c.Command), c.Count, bar))
	}
}
