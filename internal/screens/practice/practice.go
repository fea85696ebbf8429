package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	prac "github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Evaluator grades an answer to an open-response question.
type Evaluator interface {
	Evaluate(ctx context.Context, q prac.Question, answer string) (*prac.Result, error)
}

const evaluateTimeout = 90 * time.Second

type evaluatedMsg struct {
	Result *prac.Result
	Err    error
}

// PracticeScreen runs open-response practice: answer, read the grader's
// feedback, continue with its follow-up question.
type PracticeScreen struct {
	eval    Evaluator
	now     func() time.Time
	area    components.TextArea
	spinner spinner.Model

	question   prac.Question
	round      int
	scores     []float64
	evaluating bool
	result     *prac.Result
	errMsg     string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen starting at the initial slope question.
func New(eval Evaluator) *PracticeScreen {
	return &PracticeScreen{
		eval:     eval,
		now:      time.Now,
		area:     components.NewTextArea("Show your reasoning...", 70, 6),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
		question: prac.InitialQuestion(),
		round:    1,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.area.Init(), s.spinner.Tick)
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.evaluating:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.result != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case evaluatedMsg:
		return s.handleEvaluated(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.result == nil && !s.evaluating {
		var cmd tea.Cmd
		s.area, cmd = s.area.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.evaluating {
		return s, nil
	}

	key := msg.String()
	if s.result != nil {
		switch key {
		case "enter":
			s.advance()
			return s, s.area.Init()
		case "r", "R":
			s.result = nil
			return s, s.area.Init()
		}
		return s, nil
	}

	if key == "ctrl+s" {
		return s.submit()
	}

	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	answer := s.area.Value()
	if answer == "" {
		s.errMsg = "Write an answer before submitting."
		return s, nil
	}
	s.errMsg = ""
	s.evaluating = true

	eval, q := s.eval, s.question
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
		defer cancel()
		res, err := eval.Evaluate(ctx, q, answer)
		return evaluatedMsg{Result: res, Err: err}
	}
}

func (s *PracticeScreen) handleEvaluated(msg evaluatedMsg) (screen.Screen, tea.Cmd) {
	s.evaluating = false
	if msg.Err != nil {
		if errors.Is(msg.Err, prac.ErrEmptyAnswer) {
			s.errMsg = "Write an answer before submitting."
		} else {
			s.errMsg = "Couldn't grade that answer: " + msg.Err.Error()
		}
		return s, nil
	}
	s.result = msg.Result
	s.scores = append(s.scores, msg.Result.Feedback.Score)
	return s, nil
}

// advance moves to the grader's follow-up question, or retries the current
// one when none was proposed.
func (s *PracticeScreen) advance() {
	fb := s.result.Feedback
	s.result = nil
	s.errMsg = ""
	s.area.Reset()
	if strings.TrimSpace(fb.FollowUpQuestion) == "" {
		return
	}
	s.question = prac.NextQuestion(s.question, fb, s.now())
	s.round++
}

func (s *PracticeScreen) View(width, height int) string {
	cw := min(width-4, 90)
	s.area.SetWidth(cw - 4)

	var b strings.Builder
	b.WriteString("\n")

	meta := fmt.Sprintf("Question %d · %s · %s", s.round, s.question.Subject, s.question.Difficulty)
	if len(s.scores) > 0 {
		meta += fmt.Sprintf(" · average %.1f/%d", average(s.scores), prac.MaxScore)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Width(cw).Render(s.question.Text))
	b.WriteString("\n\n")

	switch {
	case s.evaluating:
		b.WriteString(s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Grading your answer..."))
	case s.result != nil:
		b.WriteString(renderFeedback(s.result.Feedback, cw))
	default:
		b.WriteString(theme.Card.Width(cw).Render(s.area.View()))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Width(cw).Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

func renderFeedback(fb prac.Feedback, width int) string {
	var b strings.Builder

	bar := components.NewProgressBar("Score", fb.Score/prac.MaxScore, false, width/2)
	b.WriteString(bar.View())
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("  %.1f / %d", fb.Score, prac.MaxScore)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render(fb.Feedback))

	if fb.Suggestions != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Explanation.Width(width).Render(fb.Suggestions))
	}
	if fb.FollowUpQuestion != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(
			fmt.Sprintf("Up next (%s): ", fb.AdjustedDifficulty)))
		b.WriteString(theme.Body.Render(fb.FollowUpQuestion))
	}
	return b.String()
}

func average(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
