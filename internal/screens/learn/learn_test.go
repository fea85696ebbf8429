package learn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/logging"
)

// instantGenerator answers every request immediately. The first option of
// each question is correct.
type instantGenerator struct {
	n atomic.Int64
}

func (g *instantGenerator) FoundationalTopics(_ context.Context, topic string) (learning.Topics, error) {
	return learning.Topics{Items: []string{topic + " basics", topic + " tools", topic + " terms"}}, nil
}

func (g *instantGenerator) NextSteps(_ context.Context, topic string) (learning.Topics, error) {
	return learning.Topics{Items: []string{"advanced " + topic, topic + " in practice", topic + " history"}}, nil
}

func (g *instantGenerator) Question(_ context.Context, req learning.QuestionRequest) (*learning.Entry, error) {
	n := g.n.Add(1)
	return &learning.Entry{
		Question: learning.Question{
			Text: fmt.Sprintf("Question %d about %s?", n, req.Target),
			Options: []learning.Option{
				{Text: "right", IsCorrect: true},
				{Text: "wrong", IsCorrect: false},
				{Text: "also wrong", IsCorrect: false},
			},
			Explanation: "Because it is right.",
		},
		ExecutionID: fmt.Sprintf("exec-%d", n),
		Target:      req.Target,
	}, nil
}

func newTestScreen(t *testing.T, rate Rater) (*LearnScreen, *learning.Machine) {
	t.Helper()
	cfg := learning.Config{
		SettleDelay:        10 * time.Millisecond,
		QueueTarget:        2,
		PrefetchRetryDelay: 10 * time.Millisecond,
	}
	m := learning.New(&instantGenerator{}, cfg, logging.Nop(), nil)
	t.Cleanup(func() {
		m.Close()
		m.Wait()
	})
	return New(m, rate), m
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *LearnScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func waitView(t *testing.T, m *learning.Machine, what string, cond func(learning.View) bool) learning.View {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if v := m.View(); cond(v) {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; phase=%s", what, m.View().Phase)
	return learning.View{}
}

func hasQuestion(v learning.View) bool {
	return v.Phase.IsAssessment() && v.CurrentQuestion != nil
}

// answerFirst waits for a question, picks option 1 and dismisses the review.
func answerFirst(t *testing.T, s *LearnScreen, m *learning.Machine) {
	t.Helper()
	waitView(t, m, "a question", hasQuestion)
	s.Update(ChangedMsg{})
	s.Update(keyPress('1'))
	if s.review == nil {
		t.Fatal("expected a review after answering")
	}
	s.Update(specialKey(tea.KeyEnter))
	if s.review != nil {
		t.Fatal("expected enter to dismiss the review")
	}
}

func TestLearnScreen_EmptyTopicShowsNotice(t *testing.T) {
	s, m := newTestScreen(t, nil)

	s.Update(specialKey(tea.KeyEnter))

	if m.View().Phase != learning.PhaseTopicInput {
		t.Errorf("phase = %s, want TOPIC_INPUT", m.View().Phase)
	}
	if !s.noticeErr || !strings.Contains(s.notice, "topic") {
		t.Errorf("expected an error notice, got %q", s.notice)
	}
}

func TestLearnScreen_StartAndAnswer(t *testing.T) {
	var mu sync.Mutex
	var rated []string
	rate := func(_ context.Context, id string, rating int) error {
		mu.Lock()
		defer mu.Unlock()
		rated = append(rated, fmt.Sprintf("%s:%d", id, rating))
		return nil
	}
	s, m := newTestScreen(t, rate)

	typeText(s, "golang")
	s.Update(specialKey(tea.KeyEnter))

	v := waitView(t, m, "a foundational question", hasQuestion)
	if v.OriginalTopic != "golang" {
		t.Fatalf("OriginalTopic = %q, want golang", v.OriginalTopic)
	}
	s.Update(ChangedMsg{})

	out := s.View(100, 30)
	if !strings.Contains(out, "Foundation 1 of 3") {
		t.Errorf("view missing foundation header:\n%s", out)
	}
	if !strings.Contains(out, v.CurrentQuestion.Text) {
		t.Errorf("view missing question text %q", v.CurrentQuestion.Text)
	}

	s.Update(keyPress('1'))
	if s.review == nil || !s.review.Correct {
		t.Fatalf("expected a correct review, got %+v", s.review)
	}
	if !strings.Contains(s.View(100, 30), "Correct!") {
		t.Error("review view should say Correct!")
	}

	_, cmd := s.Update(keyPress('+'))
	if cmd == nil {
		t.Fatal("expected a rating command")
	}
	msg := cmd()
	s.Update(msg)
	mu.Lock()
	got := append([]string(nil), rated...)
	mu.Unlock()
	if len(got) != 1 || got[0] != s.review.ExecutionID+":1" {
		t.Errorf("rated = %v, want [%s:1]", got, s.review.ExecutionID)
	}
	if s.noticeErr {
		t.Errorf("unexpected error notice %q", s.notice)
	}

	progress := m.View().FoundationalProgress[0]
	if progress.TotalAnswered != 1 || progress.TotalCorrect != 1 {
		t.Errorf("progress = %+v, want one correct answer", progress)
	}
}

func TestLearnScreen_RateWithoutRater(t *testing.T) {
	s, m := newTestScreen(t, nil)
	typeText(s, "chess")
	s.Update(specialKey(tea.KeyEnter))
	waitView(t, m, "a question", hasQuestion)
	s.Update(ChangedMsg{})
	s.Update(keyPress('2'))

	if s.review == nil || s.review.Correct {
		t.Fatalf("expected an incorrect review, got %+v", s.review)
	}
	_, cmd := s.Update(keyPress('-'))
	if cmd != nil {
		t.Error("expected no command without a rater")
	}
	if !s.noticeErr {
		t.Error("expected an error notice")
	}
}

func TestLearnScreen_CtrlRResets(t *testing.T) {
	s, m := newTestScreen(t, nil)
	typeText(s, "rust")
	s.Update(specialKey(tea.KeyEnter))
	waitView(t, m, "a question", hasQuestion)

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	if m.View().Phase != learning.PhaseTopicInput {
		t.Errorf("phase = %s, want TOPIC_INPUT", m.View().Phase)
	}
	if s.review != nil || s.asked {
		t.Error("screen state should be cleared after reset")
	}
}

func TestLearnScreen_FullPathToNextStep(t *testing.T) {
	s, m := newTestScreen(t, nil)
	typeText(s, "algebra")
	s.Update(specialKey(tea.KeyEnter))

	for i := 0; i < 4*learning.Window; i++ {
		answerFirst(t, s, m)
	}

	v := waitView(t, m, "next steps", func(v learning.View) bool {
		return v.Phase == learning.PhaseNextStepsSelection
	})
	s.Update(ChangedMsg{})
	if !strings.Contains(s.View(100, 30), v.NextStepTopics[0]) {
		t.Errorf("view should list next steps %v", v.NextStepTopics)
	}

	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command from the next-steps menu")
	}
	s.Update(cmd())

	after := m.View()
	if after.CurrentTopic != v.NextStepTopics[1] {
		t.Errorf("CurrentTopic = %q, want %q", after.CurrentTopic, v.NextStepTopics[1])
	}
	if len(after.TopicHistory) != 1 || after.TopicHistory[0] != "algebra" {
		t.Errorf("TopicHistory = %v, want [algebra]", after.TopicHistory)
	}
}

func TestWaitForChange(t *testing.T) {
	_, m := newTestScreen(t, nil)
	cmd := WaitForChange(m)

	if err := m.StartLearning("music"); err != nil {
		t.Fatal(err)
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if _, ok := msg.(ChangedMsg); !ok {
			t.Fatalf("got %T, want ChangedMsg", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWaitForChange_ClosedMachine(t *testing.T) {
	m := learning.New(&instantGenerator{}, learning.DefaultConfig(), nil, nil)
	cmd := WaitForChange(m)
	m.Close()
	m.Wait()

	if msg := cmd(); msg != nil {
		t.Errorf("got %T after close, want nil", msg)
	}
}
