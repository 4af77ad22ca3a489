package monitor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ReportFormat selects how a snapshot is printed
type ReportFormat string

const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
)

// FormatSnapshot renders s in the given format
func FormatSnapshot(s Snapshot, format ReportFormat) (string, error) {
	switch format {
	case ReportFormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal run statistics: %w", err)
		}
		return string(data) + "\n", nil
	case ReportFormatText, "":
		return formatText(s), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

func formatText(s Snapshot) string {
	var b strings.Builder
	b.WriteString("Watch Summary\n")
	b.WriteString("=============\n")
	fmt.Fprintf(&b, "Uptime:     %s\n", round(s.Uptime))
	fmt.Fprintf(&b, "Analyses:   %d (%d succeeded, %d failed)\n", s.Attempts, s.Successes, s.Failures)
	fmt.Fprintf(&b, "Coalesced:  %d\n", s.Coalesced)
	if s.Attempts > 0 {
		fmt.Fprintf(&b, "Duration:   avg %s, min %s, max %s\n", round(s.AvgTime), round(s.MinTime), round(s.MaxTime))
		fmt.Fprintf(&b, "Busy:       %s\n", round(s.BusyTime))
	}
	if len(s.Kinds) > 0 {
		b.WriteString("Failures:\n")
		for _, k := range s.Kinds {
			fmt.Fprintf(&b, "  %-12s %d\n", k.Kind, k.Count)
		}
	}
	return b.String()
}

func round(d time.Duration) time.Duration {
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(100 * time.Millisecond)
}
