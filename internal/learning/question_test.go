package learning

import (
	"errors"
	"testing"
)

func sampleQuestion() Question {
	return Question{
		Text: "What is 2 + 2?",
		Options: []Option{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
			{Text: "5"},
		},
		Explanation: "Two and two make four.",
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Question)
		valid  bool
	}{
		{"valid", func(q *Question) {}, true},
		{"no correct option", func(q *Question) { q.Options[1].IsCorrect = false }, false},
		{"two correct options", func(q *Question) { q.Options[0].IsCorrect = true }, false},
		{"too few options", func(q *Question) { q.Options = q.Options[1:] }, false},
		{"too many options", func(q *Question) {
			q.Options = append(q.Options, Option{Text: "6"}, Option{Text: "7"}, Option{Text: "8"})
		}, false},
		{"blank text", func(q *Question) { q.Text = "  " }, false},
		{"blank option", func(q *Question) { q.Options[2].Text = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuestion()
			tt.mutate(&q)
			err := q.Validate()
			if tt.valid && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("Validate() = %v, want ErrInvalidQuestion", err)
			}
		})
	}
}

func TestQuestionCorrectIndex(t *testing.T) {
	q := sampleQuestion()
	if got := q.CorrectIndex(); got != 1 {
		t.Fatalf("CorrectIndex() = %d, want 1", got)
	}
	q.Options[1].IsCorrect = false
	if got := q.CorrectIndex(); got != -1 {
		t.Fatalf("CorrectIndex() = %d, want -1", got)
	}
}

func TestTargetMatches(t *testing.T) {
	if !Foundational(1).Matches(Foundational(1)) {
		t.Fatal("same foundational index should match")
	}
	if Foundational(0).Matches(Foundational(1)) {
		t.Fatal("different foundational index should not match")
	}
	if Main().Matches(Foundational(0)) || Foundational(0).Matches(Main()) {
		t.Fatal("main and foundational should not match")
	}
	if !(Target{Kind: TargetMain, Index: 4}).Matches(Main()) {
		t.Fatal("main targets ignore index")
	}
}
