// Package promptly is a client for the hosted prompt execution API.
//
// Every call posts to /prompts/{id}/execute with the api key as a query
// parameter and the learner's launch token in the x-launch-token header.
// The server identifies each execution with the X-Execution-ID response
// header, which callers keep to attach feedback later.
package promptly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://promptly.openstax.org/api/v0"

	headerLaunchToken = "x-launch-token"
	headerExecutionID = "X-Execution-ID"
)

// PromptIDs are the server-side prompt templates used for each kind of call.
type PromptIDs struct {
	Generate int
	JSON     int
	Chat     int
}

// DefaultPromptIDs returns the ids of the stock prompt templates.
func DefaultPromptIDs() PromptIDs {
	return PromptIDs{Generate: 21, JSON: 22, Chat: 23}
}

// Config configures a Client.
type Config struct {
	BaseURL     string
	APIKey      string
	LaunchToken string
	PromptIDs   PromptIDs
	Timeout     time.Duration

	// HTTPClient overrides the default client. Tests point it at httptest.
	HTTPClient *http.Client
}

// Client talks to the prompt API.
type Client struct {
	base    string
	apiKey  string
	token   string
	prompts PromptIDs
	http    *http.Client
}

// New creates a client. Zero-valued fields fall back to defaults.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	prompts := cfg.PromptIDs
	def := DefaultPromptIDs()
	if prompts.Generate == 0 {
		prompts.Generate = def.Generate
	}
	if prompts.JSON == 0 {
		prompts.JSON = def.JSON
	}
	if prompts.Chat == 0 {
		prompts.Chat = def.Chat
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:    base,
		apiKey:  cfg.APIKey,
		token:   cfg.LaunchToken,
		prompts: prompts,
		http:    hc,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.base }

// Input is the free-form prompt input of generate and json calls.
type Input struct {
	Prompt string `json:"prompt"`
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string      `json:"role"`
	Content ChatContent `json:"content"`
}

// ChatContent wraps the text of a chat turn.
type ChatContent struct {
	Text string `json:"text"`
}

// ChatInput is the input of a chat call.
type ChatInput struct {
	System   string        `json:"system"`
	Messages []ChatMessage `json:"messages"`
}

// TextResult is the result of a text or chat execution.
type TextResult struct {
	Text        string
	ExecutionID string
}

// JSONResult is the result of a structured execution. Data holds the raw
// object the model produced.
type JSONResult struct {
	Data        json.RawMessage
	ExecutionID string
}

// ExecuteRequest is the generic request body of an execution.
type ExecuteRequest struct {
	Input      any            `json:"input"`
	ModelID    int            `json:"modelId"`
	JSONSchema map[string]any `json:"jsonSchema,omitempty"`
}

// ExecuteResult is the decoded body and execution id of a call.
type ExecuteResult struct {
	Body        json.RawMessage
	ExecutionID string
}

// GenerateText runs the text generation prompt.
func (c *Client) GenerateText(ctx context.Context, modelID int, prompt string) (*TextResult, error) {
	res, err := c.Execute(ctx, c.prompts.Generate, "", ExecuteRequest{
		Input:   Input{Prompt: prompt},
		ModelID: modelID,
	})
	if err != nil {
		return nil, err
	}
	return decodeText(res)
}

// GenerateJSON runs the structured generation prompt constrained by schema.
func (c *Client) GenerateJSON(ctx context.Context, modelID int, prompt string, schema map[string]any) (*JSONResult, error) {
	res, err := c.Execute(ctx, c.prompts.JSON, "", ExecuteRequest{
		Input:      Input{Prompt: prompt},
		ModelID:    modelID,
		JSONSchema: schema,
	})
	if err != nil {
		return nil, err
	}
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return nil, fmt.Errorf("decode json result: %w", err)
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return nil, fmt.Errorf("decode json result: empty data")
	}
	return &JSONResult{Data: body.Data, ExecutionID: res.ExecutionID}, nil
}

// Chat runs the chat prompt over the given conversation.
func (c *Client) Chat(ctx context.Context, modelID int, input ChatInput) (*TextResult, error) {
	if input.Messages == nil {
		input.Messages = []ChatMessage{}
	}
	res, err := c.Execute(ctx, c.prompts.Chat, "", ExecuteRequest{
		Input:   input,
		ModelID: modelID,
	})
	if err != nil {
		return nil, err
	}
	return decodeText(res)
}

// Execute posts req to prompt promptID. A non-empty alias selects a named
// revision of the prompt (for example "live"). ExecutionID is copied from
// the response header as is and is empty when the API sends none.
func (c *Client) Execute(ctx context.Context, promptID int, alias string, req ExecuteRequest) (*ExecuteResult, error) {
	q := url.Values{}
	if alias != "" {
		q.Set("alias", alias)
	}
	path := fmt.Sprintf("/prompts/%d/execute", promptID)
	body, header, err := c.post(ctx, path, q, req)
	if err != nil {
		return nil, err
	}
	return &ExecuteResult{Body: body, ExecutionID: header.Get(headerExecutionID)}, nil
}

// Feedback is a learner's rating of one execution. Rating is -1, 0 (clear)
// or 1.
type Feedback struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// SetFeedback attaches feedback to an execution.
func (c *Client) SetFeedback(ctx context.Context, executionID string, fb Feedback) error {
	if executionID == "" {
		return fmt.Errorf("promptly: empty execution id")
	}
	if fb.Rating < -1 || fb.Rating > 1 {
		return fmt.Errorf("promptly: rating %d out of range", fb.Rating)
	}
	_, _, err := c.post(ctx, "/executions/"+url.PathEscape(executionID)+"/feedback", nil, fb)
	return err
}

func (c *Client) post(ctx context.Context, path string, q url.Values, payload any) (json.RawMessage, http.Header, error) {
	u, err := url.Parse(c.base + path)
	if err != nil {
		return nil, nil, fmt.Errorf("promptly: build url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("promptly: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, nil, fmt.Errorf("promptly: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(headerLaunchToken, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("promptly: %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("promptly: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, resp.Header, nil
}

func decodeText(res *ExecuteResult) (*TextResult, error) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return nil, fmt.Errorf("decode text result: %w", err)
	}
	return &TextResult{Text: body.Text, ExecutionID: res.ExecutionID}, nil
}
