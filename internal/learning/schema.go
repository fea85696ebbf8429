package learning

import "github.com/abhisek/pathwise/internal/llm"

func topicsDefinition(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    3,
				"maxItems":    3,
				"description": description,
			},
		},
		"required":             []any{"topics"},
		"additionalProperties": false,
	}
}

// FoundationalTopicsSchema is the shape of a foundations response.
var FoundationalTopicsSchema = &llm.Schema{
	Name:        "foundational-topics",
	Description: "Foundational topics needed to understand the main learning topic",
	Definition:  topicsDefinition("Three foundational topics that should be mastered before learning the main topic"),
}

// NextStepsSchema is the shape of a next-steps response.
var NextStepsSchema = &llm.Schema{
	Name:        "next-steps",
	Description: "Next step topics for continued learning progression",
	Definition:  topicsDefinition("Three advanced topics the user should learn next after mastering this topic"),
}

// LearningQuestionSchema is the shape of a generated question.
var LearningQuestionSchema = &llm.Schema{
	Name:        "learning-question",
	Description: "A multiple choice learning question with marked correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questionText": map[string]any{
				"type":        "string",
				"description": "The question text with clear, concise wording",
			},
			"options": map[string]any{
				"type":     "array",
				"minItems": minOptions,
				"maxItems": maxOptions,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The option text",
						},
						"isCorrect": map[string]any{
							"type":        "boolean",
							"description": "Whether this option is the correct answer",
						},
					},
					"required":             []any{"text", "isCorrect"},
					"additionalProperties": false,
				},
				"description": "Answer options for the multiple choice question. Exactly one option should have isCorrect: true",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Brief explanation of why the correct answer is right",
			},
		},
		"required":             []any{"questionText", "options", "explanation"},
		"additionalProperties": false,
	},
}
