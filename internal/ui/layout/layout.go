// Package layout draws the frame every screen sits in.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight reports whether screens should drop decoration.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small\n\nNeed at least %d x %d\nHave %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader shows the app name, the screen title centered and status on
// the right. status may be empty.
func RenderHeader(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Pathwise")
	mid := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	side := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	inner := max(width-4, 0)
	bw, mw, sw := lipgloss.Width(brand), lipgloss.Width(mid), lipgloss.Width(side)

	// Center the title on the bar, not on the space left after the brand.
	gapL := max((inner-mw)/2-bw, 1)
	gapR := max(inner-bw-gapL-mw-sw, 1)

	return bar(width).Render(brand + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + side)
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key))
		b.WriteString(" ")
		b.WriteString(desc.Render(h.Description))
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving content whatever
// height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
