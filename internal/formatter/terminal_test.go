package formatter

import (
	"strings"
	"testing"

	"github.com/yildizm/ProtoLens/internal/report"
)

func TestWriteCommandChart_Sorting(t *testing.T) {
	formatter := NewTerminal(Options{}).(*terminalFormatter)

	cmds := []report.CommandStat{
		{Command: "mix", Count: 5},
		{Command: "aspirate", Count: 10},
		{Command: "home", Count: 2},
		{Command: "dispense", Count: 8},
		{Command: "delay", Count: 1},
	}

	var b strings.Builder
	formatter.writeCommandChart(&b, cmds)
	output := b.String()

	order := []string{"aspirate", "dispense", "mix", "home", "delay"}
	last := -1
	for _, name := range order {
		pos := strings.Index(output, name)
		if pos < 0 {
			t.Fatalf("%s missing from chart:\n%s", name, output)
		}
		if pos < last {
			t.Errorf("%s should appear after the previous command in sorted output", name)
		}
		last = pos
	}
}

func TestWriteCommandChart_MaxTen(t *testing.T) {
	formatter := NewTerminal(Options{}).(*terminalFormatter)

	var cmds []report.CommandStat
	for i := 0; i < 14; i++ {
		cmds = append(cmds, report.CommandStat{Command: "cmd_" + string(rune('a'+i)), Count: 100 - i})
	}

	var b strings.Builder
	formatter.writeCommandChart(&b, cmds)
	output := b.String()

	for i := 0; i < 10; i++ {
		name := "cmd_" + string(rune('a'+i))
		if !strings.Contains(output, name) {
			t.Errorf("expected %s in top 10", name)
		}
	}
	for i := 10; i < 14; i++ {
		name := "cmd_" + string(rune('a'+i))
		if strings.Contains(output, name) {
			t.Errorf("%s should not be in top 10", name)
		}
	}
}

func TestWriteCommandChart_Empty(t *testing.T) {
	formatter := NewTerminal(Options{}).(*terminalFormatter)

	var b strings.Builder
	formatter.writeCommandChart(&b, nil)

	if !strings.Contains(b.String(), report.NoData) {
		t.Errorf("expected placeholder, got %q", b.String())
	}
}

func TestTerminalFormat_Sections(t *testing.T) {
	r := sampleReport()
	out, err := NewTerminal(Options{Emoji: false}).Format(r)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"Protocol Analysis",
		"[SUM] Overview",
		"[PROC] Procedure",
		"01. Pick up tips",
		"[PIP] Liquid & Pipettes",
		"p300_multi_gen2 (left)",
		"[TIP] Tip Usage",
		"[AUX] Auxiliary Motions",
		"[MOD] Modules",
		"[AXS] Mechanical Breakdown",
		"Gantry X",
		"[DECK] Deck Layout",
		"[CMD] Top 10 API Command Frequency",
		"Line 12",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(text, "💧") {
		t.Error("emoji rendered while disabled")
	}
}

func TestTerminalFormat_HidesEmptyModules(t *testing.T) {
	r := sampleReport()
	r.ModuleStats = nil

	out, err := NewTerminal(Options{}).Format(r)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(string(out), "Modules") {
		t.Error("modules section should be omitted when there are no module stats")
	}
}

func TestTerminalFormat_Placeholders(t *testing.T) {
	out, err := NewTerminal(Options{}).Format(&report.Report{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	text := string(out)
	for _, want := range []string{report.NoProcedure, report.NoCustomActions, report.NoTipUsage} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing placeholder %q", want)
		}
	}
}
