// Package practice runs open-response questions graded by a hosted prompt
// that also proposes the next question at an adjusted difficulty.
package practice

import (
	"fmt"
	"strconv"
	"time"
)

// Difficulty of an open-response question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Question is an open-response question with its grading rubric.
type Question struct {
	ID             string     `json:"id"`
	Text           string     `json:"questionText"`
	Subject        string     `json:"subject"`
	Difficulty     Difficulty `json:"difficulty"`
	ExpectedAnswer string     `json:"expectedAnswer"`
	Rubric         string     `json:"rubric"`
}

// Feedback is the grader's verdict on one answer.
type Feedback struct {
	Score              float64    `json:"score"`
	Feedback           string     `json:"feedback"`
	Suggestions        string     `json:"suggestions,omitempty"`
	FollowUpQuestion   string     `json:"followUpQuestion"`
	AdjustedDifficulty Difficulty `json:"adjustedDifficulty"`
}

// MaxScore is the top of the rubric scale.
const MaxScore = 5

const defaultRubric = "Full credit (5): Correct slope calculation with formula shown. " +
	"Partial credit (3-4): Correct answer with minor work shown. " +
	"Minimal credit (1-2): Shows understanding but incorrect calculation. " +
	"No credit (0): Incorrect or no response."

// InitialQuestion is the first question of every practice session.
func InitialQuestion() Question {
	return Question{
		ID:             "1",
		Text:           "What is the slope of the line that passes through the points (2, 3) and (6, 11)?",
		Subject:        "mathematics",
		Difficulty:     DifficultyMedium,
		ExpectedAnswer: "The slope is 2. Using the slope formula: m = (y2 - y1) / (x2 - x1) = (11 - 3) / (6 - 2) = 8 / 4 = 2",
		Rubric:         defaultRubric,
	}
}

// NextQuestion builds the follow-up question proposed in fb. The subject
// and rubric carry over; there is no reference answer for generated
// questions.
func NextQuestion(prev Question, fb Feedback, now time.Time) Question {
	difficulty := fb.AdjustedDifficulty
	if difficulty == "" {
		difficulty = prev.Difficulty
	}
	return Question{
		ID:         strconv.FormatInt(now.UnixMilli(), 10),
		Text:       fb.FollowUpQuestion,
		Subject:    prev.Subject,
		Difficulty: difficulty,
		Rubric:     prev.Rubric,
	}
}
