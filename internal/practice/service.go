package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/promptly"
	"github.com/abhisek/pathwise/internal/store"
)

// ErrEmptyAnswer is returned for a blank answer.
var ErrEmptyAnswer = errors.New("practice: answer is empty")

// Executor runs a hosted prompt. *promptly.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, promptID int, alias string, req promptly.ExecuteRequest) (*promptly.ExecuteResult, error)
}

// Config selects the grading prompt.
type Config struct {
	PromptID int
	// Alias picks a named revision of the prompt.
	Alias string
	// Model is a name from promptly.Models or a numeric id.
	Model string
}

// DefaultConfig returns the live grading prompt on the default model.
func DefaultConfig() Config {
	return Config{
		PromptID: 26,
		Alias:    "live",
		Model:    "claude-3-7-sonnet",
	}
}

// Result is a graded answer.
type Result struct {
	Feedback    Feedback
	ExecutionID string
}

// Service grades answers.
type Service struct {
	exec    Executor
	cfg     Config
	modelID int
	events  store.EventRepo
	log     *logging.Logger
}

// NewService creates a Service. events may be nil.
func NewService(exec Executor, cfg Config, events store.EventRepo, log *logging.Logger) (*Service, error) {
	modelID, err := promptly.ResolveModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Service{exec: exec, cfg: cfg, modelID: modelID, events: events, log: log.Named("practice")}, nil
}

type evaluateInput struct {
	QuestionText   string     `json:"questionText"`
	Subject        string     `json:"subject"`
	Difficulty     Difficulty `json:"difficulty"`
	ExpectedAnswer string     `json:"expectedAnswer"`
	Rubric         string     `json:"rubric"`
	StudentAnswer  string     `json:"studentAnswer"`
}

// Evaluate grades answer to q.
func (s *Service) Evaluate(ctx context.Context, q Question, answer string) (*Result, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	req := promptly.ExecuteRequest{
		ModelID:    s.modelID,
		JSONSchema: FeedbackSchema.Definition,
		Input: evaluateInput{
			QuestionText:   q.Text,
			Subject:        q.Subject,
			Difficulty:     q.Difficulty,
			ExpectedAnswer: q.ExpectedAnswer,
			Rubric:         q.Rubric,
			StudentAnswer:  answer,
		},
	}

	start := time.Now()
	res, err := s.exec.Execute(ctx, s.cfg.PromptID, s.cfg.Alias, req)
	ev := store.LLMRequestEventData{
		Provider:  "promptly",
		Model:     promptly.ModelName(s.modelID),
		Purpose:   llm.PurposePracticeReview,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if reqBody, merr := json.Marshal(req); merr == nil {
		ev.RequestBody = string(reqBody)
	}

	fb, err := s.decode(res, err)
	if err != nil {
		ev.ErrorMessage = err.Error()
	} else {
		ev.Success = true
		ev.ExecutionID = res.ExecutionID
		ev.ResponseBody = string(res.Body)
	}
	s.record(ctx, ev)

	if err != nil {
		s.log.Warn("practice evaluation failed", "question_id", q.ID, "error", err)
		return nil, err
	}
	return &Result{Feedback: *fb, ExecutionID: res.ExecutionID}, nil
}

func (s *Service) decode(res *promptly.ExecuteResult, err error) (*Feedback, error) {
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	if err := llm.Validate(FeedbackSchema, envelope.Data); err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	var fb Feedback
	if err := json.Unmarshal(envelope.Data, &fb); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return &fb, nil
}

func (s *Service) record(ctx context.Context, ev store.LLMRequestEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("record practice request", "error", err)
	}
}
