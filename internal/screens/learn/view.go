package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const maxContentWidth = 90

func (s *LearnScreen) View(width, height int) string {
	v := s.machine.View()
	cw := min(width-4, maxContentWidth)

	var sections []string
	if v.CurrentTopic != "" {
		sections = append(sections, renderTopicLine(v, cw))
	}

	switch {
	case s.review != nil:
		sections = append(sections, renderReview(*s.review, cw))
	case v.Phase == learning.PhaseTopicInput:
		sections = append(sections, s.renderTopicInput(v, cw))
	case v.Phase == learning.PhaseNextStepsSelection:
		sections = append(sections, s.renderNextSteps(v, cw))
	case v.Phase.IsAssessment():
		sections = append(sections, s.renderAssessment(v, cw))
	default:
		sections = append(sections, s.renderLoading(loadingText(v)))
	}

	if s.notice != "" {
		style := lipgloss.NewStyle().Foreground(theme.Secondary)
		if s.noticeErr {
			style = theme.ErrorText
		}
		sections = append(sections, style.Width(cw).Render(s.notice))
	}

	content := lipgloss.NewStyle().
		Width(cw).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+content)
}

func renderTopicLine(v learning.View, width int) string {
	line := theme.Badge.Render(v.CurrentTopic)
	if v.OriginalTopic != "" && v.OriginalTopic != v.CurrentTopic {
		line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  from " + v.OriginalTopic)
	}
	if len(v.TopicHistory) > 0 {
		trail := "Mastered: " + strings.Join(v.TopicHistory, " → ")
		line += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render(trail)
	}
	return line
}

func (s *LearnScreen) renderTopicInput(v learning.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("What would you like to learn?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(
		"We'll check three foundations first, then the topic itself."))
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Width(width).Render(s.input.View()))
	if v.LastError != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Width(width).Render("Couldn't prepare that topic: " + v.LastError.Error()))
	}
	return b.String()
}

func (s *LearnScreen) renderLoading(text string) string {
	return s.spinner.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
}

func loadingText(v learning.View) string {
	switch v.Phase {
	case learning.PhaseGeneratingFoundations:
		return fmt.Sprintf("Finding the foundations of %q...", v.CurrentTopic)
	case learning.PhaseGeneratingMainTopic:
		return fmt.Sprintf("Foundations done! Preparing questions on %q...", v.CurrentTopic)
	case learning.PhaseGeneratingNextSteps:
		return fmt.Sprintf("You've mastered %q! Finding what to learn next...", v.CurrentTopic)
	}
	return "Generating question..."
}

func (s *LearnScreen) renderAssessment(v learning.View, width int) string {
	var b strings.Builder

	p := v.ActiveProgress()
	if v.Phase == learning.PhaseFoundationalAssessment {
		passed := 0
		for _, fp := range v.FoundationalProgress {
			if fp.IsPassed {
				passed++
			}
		}
		fmt.Fprintf(&b, "%s\n",
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(
				fmt.Sprintf("Foundation %d of %d: %s",
					v.CurrentFoundationalIndex+1, len(v.FoundationalTopics), v.CurrentFoundationalTopic())))
		b.WriteString(components.NewProgressBar("Foundations",
			float64(passed)/float64(max(len(v.FoundationalTopics), 1)), false, width/2).View())
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s\n", lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(
			"Main topic: "+v.CurrentTopic))
	}

	b.WriteString(components.AnswerTrail(p.RecentAnswers, learning.Window))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("   %d of the last %d correct · %d needed", p.RecentCorrect(), len(p.RecentAnswers), learning.PassThreshold)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	if s.canRetry(v) {
		msg := "Next steps are not ready."
		if v.LastError != nil {
			msg = "Couldn't find next steps: " + v.LastError.Error()
		}
		b.WriteString(theme.ErrorText.Width(width).Render(msg + " Press R to retry, or keep practicing."))
		b.WriteString("\n\n")
	}

	if v.CurrentQuestion == nil || !s.asked {
		b.WriteString(s.renderLoading(loadingText(v)))
		return b.String()
	}

	b.WriteString(theme.Body.Bold(true).Width(width).Render(v.CurrentQuestion.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	return b.String()
}

func renderReview(r learning.AnswerResult, width int) string {
	var b strings.Builder

	if r.Correct {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite."))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Width(width).Render(r.Question.Text))
	b.WriteString("\n\n")

	opts := make([]string, len(r.Question.Options))
	for i, o := range r.Question.Options {
		opts[i] = o.Text
	}
	mc := components.NewMultiChoice(opts)
	mc.Reveal(r.Chosen, r.CorrectIndex)
	b.WriteString(mc.View())

	if r.Question.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Explanation.Width(width).Render(r.Question.Explanation))
	}
	return b.String()
}

func (s *LearnScreen) renderNextSteps(v learning.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Correct.Render(fmt.Sprintf("You've mastered %s!", v.CurrentTopic)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render("Pick what to learn next:"))
	b.WriteString("\n\n")
	b.WriteString(s.steps.View())
	return b.String()
}
