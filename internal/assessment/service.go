package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
)

var (
	ErrEmptyPrompt = errors.New("assessment: prompt is empty")
	ErrEmptyAnswer = errors.New("assessment: answer is empty")
)

// DefaultPrompt is offered when the user has not written one.
const DefaultPrompt = "Write an assessment question about pizza. The assessment question should contain mathematical formulas.\n\n" + llm.MathWithMarkdown

// Generated is a question with the execution that produced it.
type Generated struct {
	Question    Question
	ExecutionID string
}

// Review scores an answer. Score is in [0, 1].
type Review struct {
	Score       float64 `json:"score"`
	Feedback    string  `json:"feedback"`
	ExecutionID string  `json:"-"`
}

// Percent formats the score as a percentage with two decimals.
func (r *Review) Percent() string {
	return fmt.Sprintf("%.2f%%", r.Score*100)
}

// Service generates and reviews assessment questions.
type Service struct {
	provider llm.Provider
}

// NewService creates a Service on provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Generate asks the model for a question described by prompt.
func (s *Service) Generate(ctx context.Context, prompt string) (*Generated, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeAssessment)

	resp, err := s.provider.Generate(ctx, llm.UserPrompt(prompt, QuestionSchema))
	if err != nil {
		return nil, fmt.Errorf("generate assessment question: %w", err)
	}

	var payload struct {
		Question Question `json:"question"`
	}
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("parse assessment question: %w", err)
	}
	return &Generated{Question: payload.Question, ExecutionID: resp.ExecutionID}, nil
}

// Review scores answer against q.
func (s *Service) Review(ctx context.Context, q Question, answer string) (*Review, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeAssessmentReview)

	def, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}
	prompt := fmt.Sprintf("Given the following question definition: %s, assess the answer: %q\n\n%s", def, answer, llm.MathWithMarkdown)

	resp, err := s.provider.Generate(ctx, llm.UserPrompt(prompt, ReviewSchema))
	if err != nil {
		return nil, fmt.Errorf("review answer: %w", err)
	}

	var r Review
	if err := json.Unmarshal(resp.Content, &r); err != nil {
		return nil, fmt.Errorf("parse review: %w", err)
	}
	r.ExecutionID = resp.ExecutionID
	return &r, nil
}
