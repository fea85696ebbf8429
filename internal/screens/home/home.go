package home

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Options wires the home menu. A nil screen factory disables its item.
type Options struct {
	Learn    func() screen.Screen
	Practice func() screen.Screen
	History  func() screen.Screen

	// MasteredCount is the number of distinct topics mastered so far.
	MasteredCount int
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu     components.Menu
	mastered int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	items := []components.MenuItem{
		pushItem("LEARN", "Master a topic, one foundation at a time", opts.Learn),
		pushItem("PRACTICE", "Open-ended questions with graded feedback", opts.Practice),
		pushItem("HISTORY", "Topics you have mastered", opts.History),
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:     components.NewMenu(items),
		mastered: opts.MasteredCount,
	}
}

func pushItem(label, description string, factory func() screen.Screen) components.MenuItem {
	if factory == nil {
		return components.MenuItem{Label: label, Description: "not configured", Disabled: true}
	}
	return components.MenuItem{Label: label, Description: description, Action: func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: factory()}
		}
	}}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || width < bannerWidth+8

	banner := bannerFull
	if compact {
		banner = bannerCompact
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(banner))

	stats := "No topics mastered yet"
	if h.mastered == 1 {
		stats = "★ 1 topic mastered"
	} else if h.mastered > 1 {
		stats = fmt.Sprintf("★ %d topics mastered", h.mastered)
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(stats))
	sections = append(sections, h.menu.View())

	content := lipgloss.JoinVertical(lipgloss.Center, sections[0], "", sections[1], "", sections[2])
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
