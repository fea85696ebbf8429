// Package llm abstracts the model backends used to generate learning
// content. Every backend returns JSON; when a request carries a Schema the
// content is validated against it before it reaches the caller.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates content from a prompt.
type Provider interface {
	// Generate runs req. With req.Schema set, Response.Content is a JSON
	// object conforming to the schema. Without one it is the raw text
	// encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model the provider sends requests to.
	ModelID() string
}

// FeedbackSender is implemented by backends that accept learner ratings of
// individual executions.
type FeedbackSender interface {
	SendFeedback(ctx context.Context, executionID string, rating int, comment string) error
}

// Request is one generation call.
type Request struct {
	// System sets the model's role. Optional.
	System string

	// Messages is the conversation so far. Single-shot generation sends one
	// user message.
	Messages []Message

	// Schema constrains the response to structured JSON. Nil means text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the backend default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema.
type Schema struct {
	// Name is a kebab-case identifier such as "foundational-topics". Backends
	// use it as the tool or schema name.
	Name string

	Description string

	Definition map[string]any
}

// Response is the outcome of a Generate call.
type Response struct {
	Content json.RawMessage

	// ExecutionID identifies the call on backends that track executions.
	// Empty elsewhere.
	ExecutionID string

	Usage Usage
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text decodes a text response. It returns the raw content when it is not
// a JSON string.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err != nil {
		return string(r.Content)
	}
	return s
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request.
func UserPrompt(prompt string, schema *Schema) Request {
	return Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Schema:   schema,
	}
}
