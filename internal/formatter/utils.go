package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yildizm/ProtoLens/internal/report"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// formatVolume renders a volume with thousands separators, e.g. "1,200 µL"
func formatVolume(v float64) string {
	whole := int(v)
	if float64(whole) == v {
		return formatNumber(whole) + " µL"
	}
	return report.FormatUL(v)
}

// truncate shortens s to width terminal cells
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// oneLine folds line breaks so a value fits in a table cell
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mdCell escapes a value for a Markdown table cell
func mdCell(s string) string {
	s = oneLine(s)
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
