package learn

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Rater sends a learner rating (+1, -1 or 0 to clear) for an execution.
type Rater func(ctx context.Context, executionID string, rating int) error

const rateTimeout = 10 * time.Second

// LearnScreen drives a learning.Machine: topic entry, assessment questions
// and next-step selection.
type LearnScreen struct {
	machine *learning.Machine
	rate    Rater

	input    components.TextInput
	choice   components.MultiChoice
	asked    bool
	review   *learning.AnswerResult
	steps    components.Menu
	stepsKey string
	spinner  spinner.Model

	notice    string
	noticeErr bool
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)

// New creates a LearnScreen over m. rate may be nil when the backend does
// not accept feedback.
func New(m *learning.Machine, rate Rater) *LearnScreen {
	s := &LearnScreen{
		machine: m,
		rate:    rate,
		input:   components.NewTextInput("What do you want to learn?", 120),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
	s.sync()
	return s
}

func (s *LearnScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.spinner.Tick)
}

func (s *LearnScreen) Title() string {
	return "Learn"
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.review != nil {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		if s.rate != nil && s.review.ExecutionID != "" {
			hints = append(hints, layout.KeyHint{Key: "+/-", Description: "Rate question"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}

	v := s.machine.View()
	switch {
	case v.Phase == learning.PhaseTopicInput:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case v.Phase == learning.PhaseNextStepsSelection:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Learn next"},
			{Key: "Ctrl+R", Description: "New topic"},
			{Key: "Esc", Description: "Back"},
		}
	case v.Phase.IsAssessment():
		hints := []layout.KeyHint{
			{Key: "1-5", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
		}
		if s.canRetry(v) {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry next steps"})
		}
		return append(hints,
			layout.KeyHint{Key: "Ctrl+R", Description: "New topic"},
			layout.KeyHint{Key: "Esc", Description: "Back"},
		)
	}
	return []layout.KeyHint{
		{Key: "Ctrl+R", Description: "Cancel"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		s.sync()
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case selectStepMsg:
		return s.handleSelectStep(msg)

	case ratedMsg:
		return s.handleRated(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.machine.View().Phase == learning.PhaseTopicInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// sync rebuilds the widgets that mirror machine state: a fresh selector for
// each new question and a menu for each new set of next steps.
func (s *LearnScreen) sync() {
	v := s.machine.View()

	if v.CurrentQuestion == nil {
		s.asked = false
	} else if !s.asked {
		opts := make([]string, len(v.CurrentQuestion.Options))
		for i, o := range v.CurrentQuestion.Options {
			opts[i] = o.Text
		}
		s.choice = components.NewMultiChoice(opts)
		s.asked = true
	}

	if v.Phase == learning.PhaseNextStepsSelection {
		key := strings.Join(v.NextStepTopics, "\x00")
		if key != s.stepsKey {
			s.steps = components.NewMenu(stepItems(v.NextStepTopics))
			s.stepsKey = key
		}
	} else {
		s.stepsKey = ""
	}
}

func stepItems(topics []string) []components.MenuItem {
	items := make([]components.MenuItem, len(topics))
	for i, t := range topics {
		items[i] = components.MenuItem{Label: t, Action: func() tea.Cmd {
			return func() tea.Msg { return selectStepMsg{Topic: t} }
		}}
	}
	return items
}

func (s *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+r" {
		s.machine.Reset()
		s.review = nil
		s.asked = false
		s.clearNotice()
		s.input.SetValue("")
		s.sync()
		return s, nil
	}

	if s.review != nil {
		switch key {
		case "+", "=":
			return s, s.rateCmd(s.review.ExecutionID, 1)
		case "-", "_":
			return s, s.rateCmd(s.review.ExecutionID, -1)
		case "0":
			return s, s.rateCmd(s.review.ExecutionID, 0)
		case "enter", "space", " ":
			s.review = nil
			s.clearNotice()
			s.sync()
		}
		return s, nil
	}

	v := s.machine.View()
	switch {
	case v.Phase == learning.PhaseTopicInput:
		return s.handleTopicKey(msg)
	case v.Phase == learning.PhaseNextStepsSelection:
		var cmd tea.Cmd
		s.steps, cmd = s.steps.Update(msg)
		return s, cmd
	case v.Phase.IsAssessment():
		return s.handleAnswerKey(msg, v)
	}
	return s, nil
}

func (s *LearnScreen) handleTopicKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	err := s.machine.StartLearning(s.input.Value())
	if errors.Is(err, learning.ErrEmptyTopic) {
		s.setNotice("Type a topic first.", true)
		return s, nil
	}
	if err != nil {
		s.setNotice(err.Error(), true)
		return s, nil
	}
	s.clearNotice()
	s.input.SetValue("")
	s.sync()
	return s, nil
}

func (s *LearnScreen) handleAnswerKey(msg tea.KeyMsg, v learning.View) (screen.Screen, tea.Cmd) {
	if (msg.String() == "r" || msg.String() == "R") && s.canRetry(v) {
		if err := s.machine.RetryNextSteps(); err != nil {
			s.setNotice(err.Error(), true)
		} else {
			s.clearNotice()
		}
		s.sync()
		return s, nil
	}

	if v.CurrentQuestion == nil || !s.asked {
		return s, nil
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.HasChoice() {
		return s, nil
	}

	if err := s.machine.AnswerQuestion(s.choice.Chosen); err != nil {
		s.setNotice(err.Error(), true)
		s.choice = components.NewMultiChoice(s.choice.Options)
		return s, nil
	}
	s.clearNotice()
	s.review = s.machine.View().LastAnswer
	s.asked = false
	return s, nil
}

func (s *LearnScreen) handleSelectStep(msg selectStepMsg) (screen.Screen, tea.Cmd) {
	if err := s.machine.SelectNextStep(msg.Topic); err != nil {
		s.setNotice(err.Error(), true)
		return s, nil
	}
	s.clearNotice()
	s.sync()
	return s, nil
}

func (s *LearnScreen) handleRated(msg ratedMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, llm.ErrFeedbackUnsupported):
		s.setNotice("This model does not accept feedback.", true)
	case msg.Err != nil:
		s.setNotice("Could not send feedback: "+msg.Err.Error(), true)
	case msg.Rating > 0:
		s.setNotice("Thanks! Marked as a good question.", false)
	case msg.Rating < 0:
		s.setNotice("Thanks! Marked as a poor question.", false)
	default:
		s.setNotice("Rating cleared.", false)
	}
	return s, nil
}

func (s *LearnScreen) rateCmd(executionID string, rating int) tea.Cmd {
	if s.rate == nil || executionID == "" {
		s.setNotice("Feedback isn't available for this question.", true)
		return nil
	}
	rate := s.rate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), rateTimeout)
		defer cancel()
		return ratedMsg{Rating: rating, Err: rate(ctx, executionID, rating)}
	}
}

// canRetry reports whether next steps failed and may be requested again.
func (s *LearnScreen) canRetry(v learning.View) bool {
	return v.Phase == learning.PhaseMainAssessment && v.MainProgress.IsPassed
}

func (s *LearnScreen) setNotice(text string, isErr bool) {
	s.notice = text
	s.noticeErr = isErr
}

func (s *LearnScreen) clearNotice() {
	s.notice = ""
	s.noticeErr = false
}
