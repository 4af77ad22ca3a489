package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/ProtoLens/internal/report"
)

func ptr[T any](v T) *T { return &v }

func sampleReport() *report.Report {
	return &report.Report{
		ProcedureSteps: []string{"Pick up tips", "Transfer 100 µL to column 2"},
		PipetteStats: []report.PipetteStat{{
			PipetteName:       "p300_multi_gen2",
			Mount:             "left",
			Channels:          8,
			TipType:           "opentrons_96_tiprack_300ul",
			AspiratedVolumeUL: 800,
			DispensedVolumeUL: 800,
			AspirateCount:     1,
			DispenseCount:     1,
			Logs: []report.ActionLog{
				{Description: "Aspirate 100uL", VolumeUL: ptr(100.0), Location: "A1 of Plate"},
				{Description: "Dispense 100uL", VolumeUL: ptr(100.0)},
			},
		}},
		TotalAspiratedUL:  1200,
		TotalDispensedUL:  800,
		TotalTipPickups:   8,
		TipUsageBreakdown: []report.TipUsage{{TipRack: "opentrons_96_tiprack_300ul", Count: 8}},
		AuxiliaryMotions: []report.AuxMotion{
			{Action: "blow_out", Count: 2, TipStatus: "No Tip", VolumeUL: 0},
			{Action: "mix", Count: 3, TipStatus: "With Tip", TipType: "300ul", VolumeUL: 50},
		},
		Axes:    []report.AxisStat{{Axis: "Gantry X", MovementCount: 3, HomingCount: 1}},
		Summary: "Transfers one column.",
		Labware: []report.LabwareItem{{Name: "plate", Model: "corning_96_wellplate_360ul_flat", Slot: "2"}},
		Modules: []report.LabwareItem{{Name: "temp", Model: "temperature module gen2", Slot: "3"}},
		ModuleStats: []report.ModuleStat{
			{ModuleName: "Temperature Module", Slot: "3", Model: "gen2", TempChangeCount: 2},
		},
		APICommands: []report.CommandStat{
			{Command: "aspirate", Count: 4},
			{Command: "home", Count: 1},
			{Command: "dispense", Count: 4},
			{Command: "pick_up_tip", Count: 8},
		},
		CustomActions: []report.CustomAction{
			{Description: "flow rate | 150", LineNumber: ptr(12)},
			{Description: "flow rate | 150", LineNumber: ptr(12)},
			{Description: "Slow gantry speed"},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    interface{}
		wantErr bool
	}{
		{"", &terminalFormatter{}, false},
		{"text", &terminalFormatter{}, false},
		{"TEXT", &terminalFormatter{}, false},
		{"json", &jsonFormatter{}, false},
		{"markdown", &markdownFormatter{}, false},
		{"md", &markdownFormatter{}, false},
		{"html", &htmlFormatter{}, false},
		{"csv", &csvFormatter{}, false},
		{"yaml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.name, Options{})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestFormattersRejectNilReport(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, Options{})
		require.NoError(t, err)
		_, err = f.Format(nil)
		assert.ErrorIs(t, err, errNoReport, name)
	}
}

func TestTerminalDefaultWidth(t *testing.T) {
	f := NewTerminal(Options{}).(*terminalFormatter)
	assert.Equal(t, DefaultWidth, f.width)

	f = NewTerminal(Options{Width: 20}).(*terminalFormatter)
	assert.Equal(t, "abc defghij", f.cell("abc\n  defghij"))
	assert.LessOrEqual(t, len([]rune(f.cell(strings.Repeat("x", 50)))), 20)
}

func TestJSONFormatKeepsServiceShape(t *testing.T) {
	r := sampleReport()
	out, err := NewJSON().Format(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	for _, field := range report.RequiredFields {
		assert.Contains(t, decoded, field)
	}
	assert.EqualValues(t, 1200, decoded["total_aspirated_ul"])
}

func TestCSVFormatListsAllCommandsByRank(t *testing.T) {
	out, err := NewCSV().Format(sampleReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"rank", "command", "count"},
		{"1", "pick_up_tip", "8"},
		{"2", "aspirate", "4"},
		{"3", "dispense", "4"},
		{"4", "home", "1"},
	}, rows)
}

func TestMarkdownFormat(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time {
		return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	}}

	out, err := f.Format(sampleReport())
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "# Protocol Analysis Report")
	assert.Contains(t, md, "Generated: 2026-03-01 09:30:00")
	assert.Contains(t, md, "| Total Aspirated | 1,200 µL |")
	assert.Contains(t, md, "1. Pick up tips")
	assert.Contains(t, md, "| Line 12 | flow rate \\| 150 |")
	assert.Contains(t, md, "| Unknown Line | Slow gantry speed |")
	assert.Equal(t, 1, strings.Count(md, "| Line 12 |"), "duplicate custom actions collapse")
	assert.Contains(t, md, "| 1 | Aspirate 100uL | 100 µL | 800 µL | A1 of Plate |")
	assert.Contains(t, md, "| 2 | Dispense 100uL | 100 µL | 800 µL | - |")
	assert.Contains(t, md, "| Blow Out | 2 | **No Tip** | - | - |")
	assert.Contains(t, md, "| Mix | 3 | With Tip | 300ul | 50 µL |")
	assert.Contains(t, md, "- [Modules](#modules)")
	assert.Contains(t, md, "| 1 | `pick_up_tip` | 8 | ██████████ |")
	assert.Contains(t, md, "| 4 | `home` | 1 | ██ |")
}

func TestMarkdownFormatPlaceholders(t *testing.T) {
	out, err := NewMarkdown().Format(&report.Report{})
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "_"+report.NoProcedure+"_")
	assert.Contains(t, md, "_"+report.NoCustomActions+"_")
	assert.Contains(t, md, "_"+report.NoTipUsage+"_")
	assert.NotContains(t, md, "## Modules")
	assert.NotContains(t, md, "- [Modules]")
}

func TestHTMLFormatSanitizesModelText(t *testing.T) {
	r := sampleReport()
	r.Summary = `<script>alert("x")</script> Transfers one column.`
	r.ProcedureSteps = append(r.ProcedureSteps, `<img src=x onerror="alert(1)">`)

	out, err := NewHTML().Format(r)
	require.NoError(t, err)
	page := string(out)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "Protocol Analysis Report")
	assert.NotContains(t, page, "<script>")
	assert.NotContains(t, page, "onerror")
}
