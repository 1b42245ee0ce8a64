package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm, low-contrast tones
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(12)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Data source badges
var (
	Live = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Offline = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Source renders a data source name ("remote", "cached", "fallback",
// "local") as a badge.
func Source(name string) string {
	switch name {
	case "remote", "cached":
		return Live.Render("● " + name)
	default:
		return Offline.Render("○ " + name)
	}
}

// Field renders a "label value" line.
func Field(label, value string) string {
	return Label.Render(label) + Body.Render(value)
}
