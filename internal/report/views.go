package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ChartLimit is the number of commands shown in the frequency chart
const ChartLimit = 10

// Placeholders for empty sections
const (
	NoProcedure     = "No step-by-step summary available."
	NoCustomActions = "No custom overrides detected. Protocol uses standard default parameters."
	NoTipUsage      = "No tip usage data available."
	NoData          = "No data"
	NoAnalysis      = "No analysis available"
	UnknownLine     = "Unknown Line"
)

// TopCommands returns the commands sorted by descending count, truncated to n.
// Equal counts keep their received order. n <= 0 means no limit. The input is
// not modified.
func TopCommands(cmds []CommandStat, n int) []CommandStat {
	sorted := make([]CommandStat, len(cmds))
	copy(sorted, cmds)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

type customActionKey struct {
	description string
	hasLine     bool
	line        int
}

// UniqueCustomActions drops entries whose (description, line number) pair was
// already seen, keeping first-seen order. Only exact pairs merge: the same
// description on two different lines stays as two entries.
func UniqueCustomActions(actions []CustomAction) []CustomAction {
	seen := make(map[customActionKey]struct{}, len(actions))
	out := make([]CustomAction, 0, len(actions))

	for _, a := range actions {
		key := customActionKey{description: a.Description}
		if a.LineNumber != nil {
			key.hasLine = true
			key.line = *a.LineNumber
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Channels returns the pipette channel count, treating a missing value as 1
func Channels(p PipetteStat) int {
	if p.Channels <= 0 {
		return 1
	}
	return p.Channels
}

// PerTipVolume is the volume a single log entry reports
func PerTipVolume(log ActionLog) float64 {
	if log.VolumeUL == nil {
		return 0
	}
	return *log.VolumeUL
}

// TotalVolume scales a log entry's volume by the channel count for display.
// Stored pipette totals are never recomputed.
func TotalVolume(log ActionLog, channels int) float64 {
	if channels <= 0 {
		channels = 1
	}
	return PerTipVolume(log) * float64(channels)
}

// FormatUL renders a volume without trailing zeros, e.g. "800 µL"
func FormatUL(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " µL"
}

// VolumeLabel renders an auxiliary motion volume, or "-" when there is none
func VolumeLabel(v float64) string {
	if v <= 0 {
		return "-"
	}
	return FormatUL(v)
}

// LineLabel renders "Line N" or the unknown-line placeholder
func LineLabel(a CustomAction) string {
	if a.LineNumber == nil {
		return UnknownLine
	}
	return fmt.Sprintf("Line %d", *a.LineNumber)
}

// OpenClose renders an "open / close" pair, or "-" when both are zero
func OpenClose(open, closed int) string {
	if open == 0 && closed == 0 {
		return "-"
	}
	return fmt.Sprintf("%d / %d", open, closed)
}

// TipMissing reports whether an auxiliary motion ran without a tip
func TipMissing(status string) bool {
	return strings.Contains(strings.ToLower(status), "no")
}

// LogLocation returns the log location, falling back when it is empty
func LogLocation(log ActionLog, fallback string) string {
	if log.Location != "" {
		return log.Location
	}
	return fallback
}

// StepNumber renders a zero-padded step label, e.g. "01."
func StepNumber(i int) string {
	return fmt.Sprintf("%02d.", i+1)
}

var titleCaser = cases.Title(language.English)

// ActionTitle turns an action identifier like "blow_out" into "Blow Out"
func ActionTitle(action string) string {
	return titleCaser.String(strings.ReplaceAll(action, "_", " "))
}

// HasModuleStats reports whether the module section should be shown at all
func (r *Report) HasModuleStats() bool {
	return r != nil && len(r.ModuleStats) > 0
}
