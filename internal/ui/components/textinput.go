package components

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput for single-line entries such as a topic.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused text input. charLimit <= 0 leaves the
// bubbles default.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input contents.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// TextArea wraps bubbles/textarea for free-form answers.
type TextArea struct {
	Model textarea.Model
}

// NewTextArea creates a focused text area of the given size.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text area.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the trimmed contents.
func (t TextArea) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Reset clears the contents.
func (t *TextArea) Reset() {
	t.Model.Reset()
}

// SetWidth resizes the text area.
func (t *TextArea) SetWidth(w int) {
	t.Model.SetWidth(w)
}
