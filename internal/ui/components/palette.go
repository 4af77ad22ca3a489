// Package components holds the reusable widgets of the analysis view. They
// take a Palette instead of reading the active theme so the ui package can
// depend on them.
package components

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a component renders with
type Palette struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Progress  lipgloss.AdaptiveColor
}

// DefaultPalette matches the default theme
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Success:   lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"},
		Warning:   lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"},
		Error:     lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		Muted:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Selected:  lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"},
		Progress:  lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"},
	}
}

func (p Palette) status(status string) lipgloss.AdaptiveColor {
	switch status {
	case "success":
		return p.Success
	case "warning":
		return p.Warning
	case "error":
		return p.Error
	case "info":
		return p.Primary
	default:
		return p.Secondary
	}
}
