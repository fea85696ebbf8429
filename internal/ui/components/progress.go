package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// AnswerTrail renders a fixed-size window of answers oldest first: a green
// dot per correct answer, a red cross per miss and an empty slot for each
// answer not yet given.
func AnswerTrail(recent []bool, window int) string {
	var parts []string
	for _, ok := range recent {
		if ok {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("●"))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Render("✗"))
		}
	}
	for i := len(recent); i < window; i++ {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Border).Render("○"))
	}
	return strings.Join(parts, " ")
}
