package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/store"
)

type fakeSource struct {
	topics    []store.MasteredTopic
	events    []store.LearningEvent
	topicErr  error
	eventsErr error
}

func (f *fakeSource) MasteredTopics(context.Context) ([]store.MasteredTopic, error) {
	return f.topics, f.topicErr
}

func (f *fakeSource) QueryLearningEvents(context.Context, store.QueryOpts) ([]store.LearningEvent, error) {
	return f.events, f.eventsErr
}

func learningEvent(action, topic string, correct bool) store.LearningEvent {
	return store.LearningEvent{
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		LearningEventData: store.LearningEventData{
			Action:        action,
			Topic:         topic,
			OriginalTopic: "physics",
			Correct:       correct,
		},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
}

func TestHistory_ListsTopicsAndDetails(t *testing.T) {
	src := &fakeSource{
		topics: []store.MasteredTopic{
			{Topic: "thermodynamics", Times: 2, LastAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Topic: "optics", Times: 1, LastAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		events: []store.LearningEvent{
			learningEvent(store.ActionMainPassed, "thermodynamics", false),
			learningEvent(store.ActionAnswered, "thermodynamics", true),
			learningEvent(store.ActionAnswered, "thermodynamics", true),
			learningEvent(store.ActionAnswered, "thermodynamics", false),
			learningEvent(store.ActionAnswered, "thermodynamics", true),
		},
	}
	s := New(src)
	load(t, s)

	out := s.View(120, 30)
	if !strings.Contains(out, "thermodynamics") || !strings.Contains(out, "2 times") {
		t.Errorf("missing topic row:\n%s", out)
	}
	if strings.Contains(out, "75% correct") {
		t.Error("details should be collapsed initially")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	out = s.View(120, 30)
	if !strings.Contains(out, "4 answers, 75% correct") {
		t.Errorf("expanded details missing accuracy:\n%s", out)
	}
	if !strings.Contains(out, "reached from physics") {
		t.Errorf("expanded details missing origin:\n%s", out)
	}
	if !strings.Contains(out, "mastered") {
		t.Errorf("expanded details missing event:\n%s", out)
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(&fakeSource{})
	load(t, s)
	if out := s.View(100, 20); !strings.Contains(out, "Nothing mastered yet") {
		t.Errorf("unexpected empty view:\n%s", out)
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(&fakeSource{topicErr: errors.New("disk gone")})
	load(t, s)
	if out := s.View(100, 20); !strings.Contains(out, "disk gone") {
		t.Errorf("error not shown:\n%s", out)
	}
}

func TestHistory_EventErrorStillListsTopics(t *testing.T) {
	s := New(&fakeSource{
		topics:    []store.MasteredTopic{{Topic: "optics", Times: 1}},
		eventsErr: errors.New("query failed"),
	})
	load(t, s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	out := s.View(100, 20)
	if !strings.Contains(out, "optics") || !strings.Contains(out, "No recent activity") {
		t.Errorf("unexpected view:\n%s", out)
	}
}

func TestHistory_EscPops(t *testing.T) {
	s := New(&fakeSource{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
}
