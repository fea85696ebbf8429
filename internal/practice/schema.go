package practice

import "github.com/abhisek/pathwise/internal/llm"

// FeedbackSchema is the shape the grading prompt must return.
var FeedbackSchema = &llm.Schema{
	Name:        "practice-feedback",
	Description: "Feedback on an open-response answer and the next question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     MaxScore,
				"description": "Score from 0-5 based on the rubric",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Detailed feedback about the student response",
			},
			"suggestions": map[string]any{
				"type":        "string",
				"description": "Constructive suggestions for improvement",
			},
			"followUpQuestion": map[string]any{
				"type":        "string",
				"description": "Next question text adapted to student performance",
			},
			"adjustedDifficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"easy", "medium", "hard"},
				"description": "Difficulty level for the follow-up question based on score",
			},
		},
		"required":             []any{"score", "feedback", "followUpQuestion", "adjustedDifficulty"},
		"additionalProperties": false,
	},
}
