package learning

import (
	"fmt"
	"strings"
)

// Option is one answer choice.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a generated multiple choice question.
type Question struct {
	Text        string   `json:"questionText"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation"`
}

const (
	minOptions = 3
	maxOptions = 5
)

// Validate checks that q has text, 3 to 5 options and exactly one correct
// option.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	if n := len(q.Options); n < minOptions || n > maxOptions {
		return fmt.Errorf("%w: %d options, want %d to %d", ErrInvalidQuestion, n, minOptions, maxOptions)
	}
	correct := 0
	for i, o := range q.Options {
		if strings.TrimSpace(o.Text) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrInvalidQuestion, i)
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: %d correct options, want exactly 1", ErrInvalidQuestion, correct)
	}
	return nil
}

// CorrectIndex returns the index of the correct option, or -1.
func (q *Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

func (q *Question) clone() *Question {
	if q == nil {
		return nil
	}
	c := *q
	c.Options = append([]Option(nil), q.Options...)
	return &c
}

// TargetKind distinguishes foundational and main-topic questions.
type TargetKind int

const (
	TargetFoundational TargetKind = iota
	TargetMain
)

// Target names the topic a question assesses. Index is meaningful only for
// foundational targets.
type Target struct {
	Kind  TargetKind
	Index int
}

// Foundational returns the target for foundational topic i.
func Foundational(i int) Target { return Target{Kind: TargetFoundational, Index: i} }

// Main returns the main-topic target.
func Main() Target { return Target{Kind: TargetMain} }

// Matches reports whether an entry for t serves a request for want.
func (t Target) Matches(want Target) bool {
	if t.Kind != want.Kind {
		return false
	}
	return t.Kind == TargetMain || t.Index == want.Index
}

func (t Target) String() string {
	if t.Kind == TargetMain {
		return "main"
	}
	return fmt.Sprintf("foundational[%d]", t.Index)
}

// Entry is a generated question waiting to be served.
type Entry struct {
	Question    Question
	ExecutionID string
	Target      Target
}
