package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// OptionLabels are the letters shown before each option.
var OptionLabels = []string{"A", "B", "C", "D", "E"}

// MultiChoice is a multiple-choice selector. It reports the chosen index
// and leaves grading to the caller, which may Reveal the outcome later.
type MultiChoice struct {
	Options      []string
	Selected     int
	Chosen       int
	CorrectIndex int
	revealed     bool
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		Chosen:       -1,
		CorrectIndex: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor with arrows and picks with enter, a number key or
// an option letter. Picking sets Chosen; it is a no-op once revealed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		if len(m.Options) > 0 {
			m.Chosen = m.Selected
		}
		return m, nil
	}

	if idx, ok := optionIndex(key); ok && idx < len(m.Options) {
		m.Selected = idx
		m.Chosen = idx
	}
	return m, nil
}

func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'e':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'E':
		return int(c - 'A'), true
	}
	return 0, false
}

// HasChoice reports whether the learner has picked an option.
func (m MultiChoice) HasChoice() bool {
	return m.Chosen >= 0
}

// Reveal fixes the outcome so View can color the chosen and correct options.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Chosen = chosen
	m.CorrectIndex = correct
	m.revealed = true
}

// Revealed reports whether Reveal has been called.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && i == m.CorrectIndex:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && i == m.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect returns true if the revealed choice was the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.revealed && m.Chosen == m.CorrectIndex
}
