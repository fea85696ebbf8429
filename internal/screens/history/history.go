package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// recentEvents bounds how much learning history is scanned for details.
const recentEvents = 500

// Source is the part of store.EventRepo the history screen reads.
type Source interface {
	MasteredTopics(ctx context.Context) ([]store.MasteredTopic, error)
	QueryLearningEvents(ctx context.Context, opts store.QueryOpts) ([]store.LearningEvent, error)
}

// topicStats summarizes the answers recorded for one topic.
type topicStats struct {
	Answered int
	Correct  int
	From     string
	Recent   []store.LearningEvent
}

type historyLoadedMsg struct {
	Topics []store.MasteredTopic
	Stats  map[string]*topicStats
	Err    error
}

// HistoryScreen lists mastered topics with their answer statistics.
type HistoryScreen struct {
	source   Source
	topics   []store.MasteredTopic
	stats    map[string]*topicStats
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		topics, err := s.source.MasteredTopics(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Details are best effort.
		events, err := s.source.QueryLearningEvents(ctx, store.QueryOpts{Limit: recentEvents})
		if err != nil {
			return historyLoadedMsg{Topics: topics, Stats: map[string]*topicStats{}}
		}
		return historyLoadedMsg{Topics: topics, Stats: summarize(events)}
	}
}

// summarize groups events newest first by topic.
func summarize(events []store.LearningEvent) map[string]*topicStats {
	stats := make(map[string]*topicStats)
	for _, ev := range events {
		if ev.Topic == "" {
			continue
		}
		st := stats[ev.Topic]
		if st == nil {
			st = &topicStats{}
			stats[ev.Topic] = st
		}
		if st.From == "" && ev.OriginalTopic != "" && ev.OriginalTopic != ev.Topic {
			st.From = ev.OriginalTopic
		}
		if ev.Action == store.ActionAnswered {
			st.Answered++
			if ev.Correct {
				st.Correct++
			}
		}
		if ev.Action != store.ActionAnswered && len(st.Recent) < 5 {
			st.Recent = append(st.Recent, ev)
		}
	}
	return stats
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.topics = msg.Topics
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.topics)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.topics) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing mastered yet. Start learning!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, t := range s.topics {
		times := "once"
		if t.Times > 1 {
			times = fmt.Sprintf("%d times", t.Times)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-36s  mastered %s, last %s",
			prefix, truncate(t.Topic, 36), times, t.LastAt.Local().Format("Jan 02, 2006"))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range s.details(t.Topic) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (s *HistoryScreen) details(topic string) []string {
	st := s.stats[topic]
	if st == nil {
		return []string{"    No recent activity"}
	}

	var lines []string
	if st.Answered > 0 {
		lines = append(lines, fmt.Sprintf("    %d answers, %.0f%% correct",
			st.Answered, float64(st.Correct)/float64(st.Answered)*100))
	}
	if st.From != "" {
		lines = append(lines, "    reached from "+st.From)
	}
	for _, ev := range st.Recent {
		lines = append(lines, fmt.Sprintf("    %s  %s", ev.Timestamp.Local().Format("Jan 02 15:04"), describe(ev)))
	}
	return lines
}

func describe(ev store.LearningEvent) string {
	switch ev.Action {
	case store.ActionStarted:
		return "started"
	case store.ActionFoundationsReady:
		return "foundations ready"
	case store.ActionFoundationalPassed:
		return "foundation passed"
	case store.ActionMainPassed:
		return "mastered"
	case store.ActionNextStepsReady:
		return "next steps suggested"
	case store.ActionNextStepSelected:
		return "moved on to " + ev.Detail
	case store.ActionGenerationFailed:
		return "generation failed"
	}
	return strings.ReplaceAll(ev.Action, "_", " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
