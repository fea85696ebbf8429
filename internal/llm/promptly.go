package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/abhisek/pathwise/internal/promptly"
)

// promptlyClient is the subset of *promptly.Client the backend uses.
type promptlyClient interface {
	GenerateText(ctx context.Context, modelID int, prompt string) (*promptly.TextResult, error)
	GenerateJSON(ctx context.Context, modelID int, prompt string, schema map[string]any) (*promptly.JSONResult, error)
	Chat(ctx context.Context, modelID int, input promptly.ChatInput) (*promptly.TextResult, error)
	SetFeedback(ctx context.Context, executionID string, fb promptly.Feedback) error
}

// PromptlyProvider runs requests through the hosted prompt API. Structured
// requests use the json prompt, multi-turn or system-prompted requests use
// the chat prompt, and everything else uses the generate prompt.
type PromptlyProvider struct {
	client  promptlyClient
	model   string
	modelID int
}

// NewPromptlyProvider creates a hosted prompt API backend.
func NewPromptlyProvider(cfg PromptlyConfig) (*PromptlyProvider, error) {
	if cfg.Client.APIKey == "" {
		return nil, fmt.Errorf("promptly API key is required")
	}
	id, err := promptly.ResolveModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	return &PromptlyProvider{
		client:  promptly.New(cfg.Client),
		model:   promptly.ModelName(id),
		modelID: id,
	}, nil
}

func (p *PromptlyProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	switch {
	case req.Schema != nil:
		res, err := p.client.GenerateJSON(ctx, p.modelID, flattenPrompt(req), req.Schema.Definition)
		if err != nil {
			return nil, mapPromptlyError(err)
		}
		if err := validateResponse(req.Schema, res.Data); err != nil {
			return nil, err
		}
		return p.response(res.Data, res.ExecutionID), nil

	case req.System != "" || len(req.Messages) > 1:
		res, err := p.client.Chat(ctx, p.modelID, chatInput(req))
		if err != nil {
			return nil, mapPromptlyError(err)
		}
		return p.textResponse(res)

	default:
		res, err := p.client.GenerateText(ctx, p.modelID, flattenPrompt(req))
		if err != nil {
			return nil, mapPromptlyError(err)
		}
		return p.textResponse(res)
	}
}

func (p *PromptlyProvider) ModelID() string {
	return p.model
}

// SendFeedback rates an execution on the hosted API.
func (p *PromptlyProvider) SendFeedback(ctx context.Context, executionID string, rating int, comment string) error {
	return p.client.SetFeedback(ctx, executionID, promptly.Feedback{Rating: rating, Feedback: comment})
}

func (p *PromptlyProvider) textResponse(res *promptly.TextResult) (*Response, error) {
	content, err := finishContent(nil, res.Text)
	if err != nil {
		return nil, err
	}
	return p.response(content, res.ExecutionID), nil
}

func (p *PromptlyProvider) response(content []byte, executionID string) *Response {
	return &Response{
		Content:     content,
		ExecutionID: executionID,
		Model:       p.model,
		StopReason:  "end",
	}
}

// flattenPrompt folds a request into the single prompt string the generate
// and json prompts accept.
func flattenPrompt(req Request) string {
	var parts []string
	if req.System != "" {
		parts = append(parts, req.System)
	}
	for _, m := range req.Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n")
}

func chatInput(req Request) promptly.ChatInput {
	in := promptly.ChatInput{
		System:   req.System,
		Messages: make([]promptly.ChatMessage, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		in.Messages = append(in.Messages, promptly.ChatMessage{
			Role:    string(m.Role),
			Content: promptly.ChatContent{Text: m.Content},
		})
	}
	return in
}

func mapPromptlyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, promptly.ErrUnauthorized) {
		return err
	}
	var apiErr *promptly.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return &ErrRateLimit{Err: err}
		case apiErr.StatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		default:
			return &ErrInvalidResponse{Err: err}
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	return &ErrInvalidResponse{Err: err}
}
