// Package assessment generates free-form assessment questions from a prompt
// and scores answers to them.
package assessment

import (
	"encoding/json"
	"fmt"
)

// Kind tags a Question.
type Kind string

const (
	KindOpenResponse   Kind = "open-response"
	KindMultipleChoice Kind = "multiple-choice"
)

// Question is either open-response or multiple-choice. Options is set only
// for multiple-choice questions.
type Question struct {
	Kind    Kind
	Text    string
	Options []string
}

type questionJSON struct {
	Type         Kind     `json:"type,omitempty"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options,omitempty"`
}

// UnmarshalJSON decodes either variant. A missing type is inferred from the
// presence of options.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	kind := raw.Type
	if kind == "" {
		kind = KindOpenResponse
		if len(raw.Options) > 0 {
			kind = KindMultipleChoice
		}
	}

	switch kind {
	case KindOpenResponse:
		*q = Question{Kind: kind, Text: raw.QuestionText}
	case KindMultipleChoice:
		if len(raw.Options) == 0 {
			return fmt.Errorf("multiple-choice question without options")
		}
		*q = Question{Kind: kind, Text: raw.QuestionText, Options: raw.Options}
	default:
		return fmt.Errorf("unknown question type %q", kind)
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	raw := questionJSON{Type: q.Kind, QuestionText: q.Text}
	if q.Kind == KindMultipleChoice {
		raw.Options = q.Options
	}
	return json.Marshal(raw)
}

// IsMultipleChoice reports whether q offers options.
func (q Question) IsMultipleChoice() bool { return q.Kind == KindMultipleChoice }
