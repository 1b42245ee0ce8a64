package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

// ScoreMeter renders a score against its maximum as a horizontal bar.
type ScoreMeter struct {
	Label string
	Score int
	Max   int
	Width int
}

// NewScoreMeter creates a meter of the given total width.
func NewScoreMeter(label string, score, max, width int) ScoreMeter {
	return ScoreMeter{Label: label, Score: score, Max: max, Width: width}
}

// Ratio is Score/Max clamped to [0, 1]. A meter without a maximum is empty.
func (m ScoreMeter) Ratio() float64 {
	if m.Max <= 0 {
		return 0
	}
	r := float64(m.Score) / float64(m.Max)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// View renders the meter.
func (m ScoreMeter) View() string {
	var result string

	if m.Label != "" {
		result += theme.Label.Render(m.Label)
	}

	suffix := fmt.Sprintf("  %d/%d", m.Score, m.Max)
	barWidth := m.Width - lipgloss.Width(result) - len(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * m.Ratio())
	empty := barWidth - filled

	result += lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return result + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
