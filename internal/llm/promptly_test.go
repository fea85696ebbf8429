package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhisek/pathwise/internal/promptly"
)

type fakePromptly struct {
	textPrompt string
	jsonPrompt string
	jsonSchema map[string]any
	chat       *promptly.ChatInput
	feedback   []promptly.Feedback

	data json.RawMessage
	err  error
}

func (f *fakePromptly) GenerateText(_ context.Context, _ int, prompt string) (*promptly.TextResult, error) {
	f.textPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &promptly.TextResult{Text: "generated", ExecutionID: "1"}, nil
}

func (f *fakePromptly) GenerateJSON(_ context.Context, _ int, prompt string, schema map[string]any) (*promptly.JSONResult, error) {
	f.jsonPrompt = prompt
	f.jsonSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return &promptly.JSONResult{Data: f.data, ExecutionID: "2"}, nil
}

func (f *fakePromptly) Chat(_ context.Context, _ int, input promptly.ChatInput) (*promptly.TextResult, error) {
	f.chat = &input
	if f.err != nil {
		return nil, f.err
	}
	return &promptly.TextResult{Text: "reply", ExecutionID: "3"}, nil
}

func (f *fakePromptly) SetFeedback(_ context.Context, _ string, fb promptly.Feedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func newTestPromptlyProvider(f *fakePromptly) *PromptlyProvider {
	return &PromptlyProvider{client: f, model: "gpt-4o", modelID: 2}
}

func TestPromptlyProvider_JSON(t *testing.T) {
	f := &fakePromptly{data: json.RawMessage(`{"topics":["a","b","c"]}`)}
	p := newTestPromptlyProvider(f)

	resp, err := p.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "topics"}},
		Schema:   topicsSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ExecutionID != "2" {
		t.Fatalf("expected execution id 2, got %q", resp.ExecutionID)
	}
	if f.jsonPrompt != "sys\n\ntopics" {
		t.Fatalf("unexpected flattened prompt %q", f.jsonPrompt)
	}
	if f.jsonSchema["type"] != "object" {
		t.Fatalf("schema not forwarded: %v", f.jsonSchema)
	}
}

func TestPromptlyProvider_JSONFailsValidation(t *testing.T) {
	f := &fakePromptly{data: json.RawMessage(`{"topics":["a"]}`)}
	_, err := newTestPromptlyProvider(f).Generate(context.Background(), UserPrompt("x", topicsSchema()))
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestPromptlyProvider_Text(t *testing.T) {
	f := &fakePromptly{}
	resp, err := newTestPromptlyProvider(f).Generate(context.Background(), UserPrompt("write", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "generated" || resp.ExecutionID != "1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if f.textPrompt != "write" || f.chat != nil {
		t.Fatal("expected the generate prompt to be used")
	}
}

func TestPromptlyProvider_Chat(t *testing.T) {
	f := &fakePromptly{}
	resp, err := newTestPromptlyProvider(f).Generate(context.Background(), Request{
		System: "be kind",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "help"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "reply" {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if f.chat == nil || f.chat.System != "be kind" || len(f.chat.Messages) != 3 {
		t.Fatalf("unexpected chat input %+v", f.chat)
	}
	if f.chat.Messages[1].Role != "assistant" || f.chat.Messages[1].Content.Text != "hello" {
		t.Fatalf("unexpected message %+v", f.chat.Messages[1])
	}
}

func TestPromptlyProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"rate limit", &promptly.APIError{StatusCode: 429}, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server", &promptly.APIError{StatusCode: 503}, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"unauthorized", &promptly.APIError{StatusCode: 401}, func(err error) bool {
			return errors.Is(err, promptly.ErrUnauthorized)
		}},
		{"canceled", context.Canceled, func(err error) bool {
			return errors.Is(err, context.Canceled)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakePromptly{err: tt.err}
			_, err := newTestPromptlyProvider(f).Generate(context.Background(), UserPrompt("x", nil))
			if !tt.check(err) {
				t.Fatalf("unexpected mapping: %T %v", err, err)
			}
		})
	}
}

func TestPromptlyProvider_Feedback(t *testing.T) {
	f := &fakePromptly{}
	p := newTestPromptlyProvider(f)
	if err := SendFeedback(context.Background(), p, "9", -1, "wrong answer key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.feedback) != 1 || f.feedback[0].Rating != -1 || f.feedback[0].Feedback != "wrong answer key" {
		t.Fatalf("unexpected feedback %+v", f.feedback)
	}
}

func TestNewPromptlyProvider(t *testing.T) {
	if _, err := NewPromptlyProvider(PromptlyConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
	p, err := NewPromptlyProvider(PromptlyConfig{Client: promptly.Config{APIKey: "k"}, Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" || p.modelID != 3 {
		t.Fatalf("unexpected model %q/%d", p.ModelID(), p.modelID)
	}
}

func TestPromptlyProvider_NoExecutionHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"topics":["a","b","c"]}}`))
	}))
	defer server.Close()

	p, err := NewPromptlyProvider(PromptlyConfig{
		Client: promptly.Config{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()},
		Model:  "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "topics"}},
		Schema:   topicsSchema(),
	})
	if err != nil {
		t.Fatalf("response without execution id should succeed: %v", err)
	}
	if resp.ExecutionID != "" {
		t.Fatalf("expected empty execution id, got %q", resp.ExecutionID)
	}
}
