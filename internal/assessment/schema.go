package assessment

import "github.com/abhisek/pathwise/internal/llm"

// QuestionSchema is the shape of a generated assessment question.
var QuestionSchema = &llm.Schema{
	Name:        "assessment-question",
	Description: "An assessment question, either open-ended or multiple-choice",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "object",
				"description": "A question to be answered, either open-ended or multiple-choice.",
				"anyOf": []any{
					map[string]any{
						"type": "object",
						"properties": map[string]any{
							"type": map[string]any{
								"type":        "string",
								"enum":        []any{string(KindOpenResponse)},
								"description": "The type of question to generate.",
							},
							"questionText": map[string]any{
								"type":        "string",
								"description": "The question to be answered.",
							},
						},
						"required":    []any{"questionText"},
						"description": "An open-ended question.",
					},
					map[string]any{
						"type": "object",
						"properties": map[string]any{
							"type": map[string]any{
								"type":        "string",
								"enum":        []any{string(KindMultipleChoice)},
								"description": "The type of question to generate.",
							},
							"questionText": map[string]any{
								"type":        "string",
								"description": "The question to be answered.",
							},
							"options": map[string]any{
								"type":        "array",
								"items":       map[string]any{"type": "string"},
								"description": "An array of options for the question.",
							},
						},
						"required":    []any{"questionText", "options"},
						"description": "A multiple-choice question with options.",
					},
				},
			},
		},
		"required": []any{"question"},
	},
}

// ReviewSchema is the shape of an answer review.
var ReviewSchema = &llm.Schema{
	Name:        "assessment-review",
	Description: "An assessment of the provided answer.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "A decimal value between 0 and 1 indicating how well the answer matches the expected answer.",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Feedback on the provided answer, including what was correct or incorrect.",
			},
		},
		"required": []any{"score", "feedback"},
	},
}
