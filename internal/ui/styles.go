package ui

import (
	"sync/atomic"

	"charm.land/lipgloss/v2"
)

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber
	ColorError       = lipgloss.Color("#EF4444") // Red
	ColorSuccess     = lipgloss.Color("#10B981") // Green
)

// Block styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// Key/value styles
var (
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	UnsetStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Table styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary)

	TableRuleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

var plain atomic.Bool

// SetPlain turns styling off (true) or back on.
func SetPlain(enabled bool) {
	plain.Store(enabled)
}

// Plain reports whether styling is off.
func Plain() bool {
	return plain.Load()
}

func render(style lipgloss.Style, s string) string {
	if plain.Load() {
		return s
	}
	return style.Render(s)
}

// Success formats a confirmation line.
func Success(msg string) string {
	return render(SuccessStyle, "✓ "+msg)
}

// Warning formats a warning line.
func Warning(msg string) string {
	return render(WarningStyle, "! "+msg)
}

// Hint formats a secondary line of help text.
func Hint(msg string) string {
	return render(HintStyle, msg)
}

// Title formats a section title.
func Title(s string) string {
	return render(TitleStyle, s)
}
