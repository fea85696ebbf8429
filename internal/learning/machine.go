// Package learning runs adaptive learning sessions: three foundational
// topics are assessed before the main topic, and mastering the main topic
// offers three next steps. Questions are generated ahead of time so the
// learner rarely waits.
package learning

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// request is one outstanding generation. Continuations apply their result
// only while the Machine still holds the same pointer.
type request struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Machine is the learning session state machine. All methods are safe for
// concurrent use and return without waiting for generation.
type Machine struct {
	gen Generator
	cfg Config
	log *logging.Logger
	rec *recorder

	root       context.Context
	cancelRoot context.CancelFunc

	mu         sync.Mutex
	session    Session
	sessionID  string
	queue      Queue
	current    *Entry
	lastAnswer *AnswerResult
	lastErr    error

	structural *request
	background *request
	settle     *time.Timer
	retry      *time.Timer
	closed     bool

	wg      sync.WaitGroup
	changes chan struct{}
	errs    chan error
}

// New creates a Machine in PhaseTopicInput. sink may be nil.
func New(gen Generator, cfg Config, log *logging.Logger, sink EventSink) *Machine {
	if log == nil {
		log = logging.Nop()
	}
	cfg = cfg.withDefaults()
	root, cancel := context.WithCancel(context.Background())

	m := &Machine{
		gen:        gen,
		cfg:        cfg,
		log:        log.Named("learning"),
		root:       root,
		cancelRoot: cancel,
		session:    Session{Phase: PhaseTopicInput},
		sessionID:  uuid.NewString(),
		changes:    make(chan struct{}, 1),
		errs:       make(chan error, 8),
	}
	if sink != nil {
		m.rec = newRecorder(sink, cfg.RecorderBuffer, m.log)
	}
	return m
}

// Changes delivers a value after state changes. Notifications coalesce. The
// channel is closed by Close.
func (m *Machine) Changes() <-chan struct{} { return m.changes }

// Errors delivers structural generation failures. The channel is closed by
// Close.
func (m *Machine) Errors() <-chan error { return m.errs }

// Wait blocks until no generation or timer callback is running.
func (m *Machine) Wait() { m.wg.Wait() }

// StartLearning begins a session on topic, discarding the current one but
// keeping the topic history.
func (m *Machine) StartLearning(topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyTopic
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.startLocked(topic)
	return nil
}

// SelectNextStep records the mastered topic and starts learning topic.
func (m *Machine) SelectNextStep(topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyTopic
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.session.Phase != PhaseNextStepsSelection {
		return fmt.Errorf("%w: select next step in %s", ErrInvalidPhase, m.session.Phase)
	}

	ev := m.eventLocked(store.ActionNextStepSelected)
	ev.Detail = topic
	m.rec.record(ev)

	m.session.TopicHistory = append(m.session.TopicHistory, m.session.CurrentTopic)
	m.startLocked(topic)
	return nil
}

// AnswerQuestion answers the current question with the option at index.
// Without a current question it does nothing.
func (m *Machine) AnswerQuestion(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.current == nil {
		return nil
	}

	answered := m.current
	q := answered.Question
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: %d of %d options", ErrAnswerOutOfRange, index, len(q.Options))
	}

	correctIndex := q.CorrectIndex()
	correct := index == correctIndex
	m.lastAnswer = &AnswerResult{
		Question:     *q.clone(),
		ExecutionID:  answered.ExecutionID,
		Chosen:       index,
		CorrectIndex: correctIndex,
		Correct:      correct,
	}
	m.current = nil

	target := answered.Target
	var p Progress
	if target.Kind == TargetFoundational {
		p = m.session.FoundationalProgress[target.Index].Record(correct)
		m.session.FoundationalProgress[target.Index] = p
	} else {
		p = m.session.MainProgress.Record(correct)
		m.session.MainProgress = p
	}

	ev := m.eventForLocked(store.ActionAnswered, target)
	ev.Correct = correct
	ev.TotalAnswered = p.TotalAnswered
	ev.TotalCorrect = p.TotalCorrect
	ev.ExecutionID = answered.ExecutionID
	m.rec.record(ev)

	if p.IsPassed {
		m.passedLocked(target, p)
	} else {
		if e, ok := m.queue.Dequeue(target); ok {
			m.current = &e
		}
		m.reconcileLocked()
	}
	m.notifyLocked()
	return nil
}

// RetryNextSteps requests next steps again after a failed attempt.
func (m *Machine) RetryNextSteps() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.session.Phase != PhaseMainAssessment || !m.session.MainProgress.IsPassed {
		return fmt.Errorf("%w: retry next steps in %s", ErrInvalidPhase, m.session.Phase)
	}
	m.startNextStepsLocked()
	m.notifyLocked()
	return nil
}

// Reset cancels outstanding work and returns to PhaseTopicInput with an
// empty history.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.rec.record(m.eventLocked(store.ActionReset))
	m.cancelLocked()
	m.queue.Clear()
	m.session = Session{Phase: PhaseTopicInput}
	m.sessionID = uuid.NewString()
	m.current = nil
	m.lastAnswer = nil
	m.lastErr = nil
	m.notifyLocked()
}

// Close cancels outstanding work and stops accepting calls. Queued events
// are flushed before it returns.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cancelLocked()
	m.cancelRoot()
	m.queue.Clear()
	m.current = nil
	close(m.changes)
	close(m.errs)
	m.mu.Unlock()

	m.rec.close()
}

// View returns a snapshot of the session.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Session:    m.session.clone(),
		SessionID:  m.sessionID,
		Generating: m.background != nil,
		Queued:     m.queue.Len(),
		LastError:  m.lastErr,
	}
	if m.current != nil {
		v.CurrentQuestion = m.current.Question.clone()
		v.CurrentExecutionID = m.current.ExecutionID
	}
	if m.lastAnswer != nil {
		la := *m.lastAnswer
		la.Question = *la.Question.clone()
		v.LastAnswer = &la
	}
	v.IsLoading = m.session.Phase.IsGenerating() || (m.session.Phase.IsAssessment() && m.current == nil)
	return v
}

func (m *Machine) startLocked(topic string) {
	m.cancelLocked()
	m.queue.Clear()
	m.current = nil
	m.lastAnswer = nil
	m.lastErr = nil
	m.session = Session{
		Phase:         PhaseGeneratingFoundations,
		OriginalTopic: topic,
		CurrentTopic:  topic,
		TopicHistory:  m.session.TopicHistory,
	}
	m.rec.record(m.eventLocked(store.ActionStarted))

	req := m.newRequestLocked()
	m.structural = req
	m.wg.Add(1)
	go m.runFoundations(req, topic)
	m.notifyLocked()
}

func (m *Machine) runFoundations(req *request, topic string) {
	defer m.wg.Done()
	topics, err := m.gen.FoundationalTopics(req.ctx, topic)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.structural != req {
		return
	}
	m.structural = nil
	req.cancel()

	if err != nil {
		if llm.IsCanceled(err) {
			return
		}
		m.log.Error("foundational topics generation failed", "topic", topic, "error", err)
		ev := m.eventLocked(store.ActionGenerationFailed)
		ev.Detail = err.Error()
		m.rec.record(ev)

		m.session.Phase = PhaseTopicInput
		m.failLocked(fmt.Errorf("generate foundational topics: %w", err))
		m.notifyLocked()
		return
	}

	m.session.FoundationalTopics = append([]string(nil), topics.Items...)
	m.session.FoundationalProgress = make([]Progress, len(topics.Items))
	m.session.CurrentFoundationalIndex = 0
	m.session.Phase = PhaseFoundationalAssessment

	ev := m.eventLocked(store.ActionFoundationsReady)
	ev.ExecutionID = topics.ExecutionID
	ev.Detail = strings.Join(topics.Items, "; ")
	m.rec.record(ev)

	m.reconcileLocked()
	m.notifyLocked()
}

func (m *Machine) passedLocked(target Target, p Progress) {
	if target.Kind == TargetMain {
		ev := m.eventForLocked(store.ActionMainPassed, target)
		ev.TotalAnswered = p.TotalAnswered
		ev.TotalCorrect = p.TotalCorrect
		m.rec.record(ev)
		m.startNextStepsLocked()
		return
	}

	ev := m.eventForLocked(store.ActionFoundationalPassed, target)
	ev.TotalAnswered = p.TotalAnswered
	ev.TotalCorrect = p.TotalCorrect
	m.rec.record(ev)

	m.cancelBackgroundLocked()
	next := target.Index + 1
	if next < len(m.session.FoundationalTopics) {
		m.session.CurrentFoundationalIndex = next
		m.queue.PurgeStaleForeign(next)
		m.reconcileLocked()
		return
	}

	m.session.Phase = PhaseGeneratingMainTopic
	m.queue.PurgeStaleForeign(-1)
	if m.queue.Count(Main()) > 0 {
		m.enterMainLocked()
		return
	}
	m.prefetchLocked(Main())
	m.armSettleLocked()
}

func (m *Machine) armSettleLocked() {
	var t *time.Timer
	m.wg.Add(1)
	t = time.AfterFunc(m.cfg.SettleDelay, func() {
		defer m.wg.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.settle != t {
			return
		}
		m.settle = nil
		m.enterMainLocked()
		m.notifyLocked()
	})
	m.settle = t
}

func (m *Machine) enterMainLocked() {
	m.stopTimerLocked(&m.settle)
	m.session.Phase = PhaseMainAssessment
	m.reconcileLocked()
}

func (m *Machine) startNextStepsLocked() {
	m.session.Phase = PhaseGeneratingNextSteps
	m.current = nil
	m.lastErr = nil
	m.cancelBackgroundLocked()
	if m.structural != nil {
		m.structural.cancel()
	}

	req := m.newRequestLocked()
	m.structural = req
	m.wg.Add(1)
	go m.runNextSteps(req, m.session.CurrentTopic)
}

func (m *Machine) runNextSteps(req *request, topic string) {
	defer m.wg.Done()
	topics, err := m.gen.NextSteps(req.ctx, topic)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.structural != req {
		return
	}
	m.structural = nil
	req.cancel()

	if err != nil {
		if llm.IsCanceled(err) {
			return
		}
		m.log.Error("next steps generation failed", "topic", topic, "error", err)
		ev := m.eventLocked(store.ActionGenerationFailed)
		ev.Detail = err.Error()
		m.rec.record(ev)

		m.session.Phase = PhaseMainAssessment
		m.failLocked(fmt.Errorf("generate next steps: %w", err))
		m.reconcileLocked()
		m.notifyLocked()
		return
	}

	m.session.NextStepTopics = append([]string(nil), topics.Items...)
	m.session.Phase = PhaseNextStepsSelection
	m.queue.Clear()

	ev := m.eventLocked(store.ActionNextStepsReady)
	ev.ExecutionID = topics.ExecutionID
	ev.Detail = strings.Join(topics.Items, "; ")
	m.rec.record(ev)
	m.notifyLocked()
}

// reconcileLocked presents a queued question when none is shown and keeps
// up to QueueTarget questions ready for the active topic, with at most one
// background request at a time.
func (m *Machine) reconcileLocked() {
	if m.closed || !m.session.Phase.IsAssessment() {
		return
	}
	target := m.activeTargetLocked()

	if m.current == nil {
		if e, ok := m.queue.Dequeue(target); ok {
			m.current = &e
		}
	}
	if m.background != nil || m.retry != nil {
		return
	}
	if m.queue.Count(target) >= m.cfg.QueueTarget {
		return
	}
	m.prefetchLocked(target)
}

func (m *Machine) activeTargetLocked() Target {
	if m.session.Phase == PhaseFoundationalAssessment {
		return Foundational(m.session.CurrentFoundationalIndex)
	}
	return Main()
}

func (m *Machine) prefetchLocked(target Target) {
	qr := QuestionRequest{Target: target, Avoid: m.queue.Texts(target)}
	if target.Kind == TargetFoundational {
		qr.Topics = []string{m.session.FoundationalTopics[target.Index]}
	} else {
		qr.Topics = []string{m.session.CurrentTopic}
	}
	if m.current != nil && m.current.Target.Matches(target) {
		qr.Avoid = append(qr.Avoid, m.current.Question.Text)
	}

	req := m.newRequestLocked()
	m.background = req
	m.wg.Add(1)
	go m.runQuestion(req, qr)
}

func (m *Machine) runQuestion(req *request, qr QuestionRequest) {
	defer m.wg.Done()
	entry, err := m.gen.Question(req.ctx, qr)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.background != req {
		return
	}
	m.background = nil
	req.cancel()

	if err != nil {
		if llm.IsCanceled(err) {
			return
		}
		m.log.Warn("background question generation failed", "target", qr.Target.String(), "error", err)
		m.armRetryLocked()
		m.notifyLocked()
		return
	}

	entry.Target = qr.Target
	if !m.acceptsLocked(qr.Target) {
		m.log.Debug("discarding question for inactive target", "target", qr.Target.String())
		m.reconcileLocked()
		m.notifyLocked()
		return
	}

	m.queue.Enqueue(*entry)
	if m.session.Phase == PhaseGeneratingMainTopic {
		m.enterMainLocked()
	} else {
		m.reconcileLocked()
	}
	m.notifyLocked()
}

// acceptsLocked reports whether a question for t is still useful.
func (m *Machine) acceptsLocked(t Target) bool {
	switch m.session.Phase {
	case PhaseFoundationalAssessment:
		return t.Matches(Foundational(m.session.CurrentFoundationalIndex))
	case PhaseGeneratingMainTopic, PhaseMainAssessment:
		return t.Kind == TargetMain
	}
	return false
}

func (m *Machine) armRetryLocked() {
	var t *time.Timer
	m.wg.Add(1)
	t = time.AfterFunc(m.cfg.PrefetchRetryDelay, func() {
		defer m.wg.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.retry != t {
			return
		}
		m.retry = nil
		m.reconcileLocked()
		m.notifyLocked()
	})
	m.retry = t
}

func (m *Machine) newRequestLocked() *request {
	ctx, cancel := context.WithCancel(m.root)
	return &request{ctx: ctx, cancel: cancel}
}

// cancelLocked abandons every outstanding request and timer.
func (m *Machine) cancelLocked() {
	if m.structural != nil {
		m.structural.cancel()
		m.structural = nil
	}
	m.cancelBackgroundLocked()
	m.stopTimerLocked(&m.settle)
}

func (m *Machine) cancelBackgroundLocked() {
	if m.background != nil {
		m.background.cancel()
		m.background = nil
	}
	m.stopTimerLocked(&m.retry)
}

func (m *Machine) stopTimerLocked(t **time.Timer) {
	if *t == nil {
		return
	}
	if (*t).Stop() {
		m.wg.Done()
	}
	*t = nil
}

func (m *Machine) failLocked(err error) {
	m.lastErr = err
	select {
	case m.errs <- err:
	default:
	}
}

func (m *Machine) notifyLocked() {
	if m.closed {
		return
	}
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Machine) eventLocked(action string) store.LearningEventData {
	return store.LearningEventData{
		SessionID:         m.sessionID,
		Action:            action,
		Topic:             m.session.CurrentTopic,
		OriginalTopic:     m.session.OriginalTopic,
		FoundationalIndex: -1,
	}
}

func (m *Machine) eventForLocked(action string, t Target) store.LearningEventData {
	ev := m.eventLocked(action)
	if t.Kind == TargetFoundational {
		ev.FoundationalIndex = t.Index
		ev.Topic = m.session.FoundationalTopics[t.Index]
	}
	return ev
}
