package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice_ArrowsAndEnter(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c"})
	if mc.HasChoice() {
		t.Fatal("fresh selector should have no choice")
	}

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if mc.Selected != 2 {
		t.Fatalf("Selected = %d, want 2 (clamped)", mc.Selected)
	}

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if mc.Chosen != 2 {
		t.Errorf("Chosen = %d, want 2", mc.Chosen)
	}
}

func TestMultiChoice_NumberAndLetterKeys(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d", "e"})

	mc, _ = mc.Update(key('5'))
	if mc.Chosen != 4 {
		t.Errorf("after '5' Chosen = %d, want 4", mc.Chosen)
	}

	mc, _ = mc.Update(key('b'))
	if mc.Chosen != 1 {
		t.Errorf("after 'b' Chosen = %d, want 1", mc.Chosen)
	}
}

func TestMultiChoice_IgnoresKeysPastOptions(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c"})
	mc, _ = mc.Update(key('4'))
	mc, _ = mc.Update(key('e'))
	if mc.HasChoice() {
		t.Errorf("Chosen = %d, want none", mc.Chosen)
	}
}

func TestMultiChoice_RevealFreezes(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c"})
	mc.Reveal(0, 2)

	mc, _ = mc.Update(key('2'))
	if mc.Chosen != 0 {
		t.Errorf("Chosen changed after reveal: %d", mc.Chosen)
	}
	if mc.IsCorrect() {
		t.Error("IsCorrect should be false for a wrong pick")
	}

	view := mc.View()
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("revealed view should mark correct and chosen options:\n%s", view)
	}
}

func TestAnswerTrail_PadsToWindow(t *testing.T) {
	trail := AnswerTrail([]bool{true, false}, 5)
	if got := lipgloss.Width(trail); got != 9 {
		t.Errorf("trail width = %d, want 9", got)
	}
	if strings.Count(trail, "○") != 3 {
		t.Errorf("expected 3 empty slots in %q", trail)
	}
}
