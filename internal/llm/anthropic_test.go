package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicTestModel = "claude-haiku-4-5-20251001"

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: anthropicTestModel}
}

// anthropicReply serves a single message with text as its only block.
func anthropicReply(text, stopReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       anthropicTestModel,
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 120, "output_tokens": 80},
		})
	}
}

func learningQuestionSchema() *Schema {
	return &Schema{
		Name: "test-learning-question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questionText": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"minItems": 3,
					"maxItems": 5,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"text":      map[string]any{"type": "string"},
							"isCorrect": map[string]any{"type": "boolean"},
						},
						"required": []any{"text", "isCorrect"},
					},
				},
				"explanation": map[string]any{"type": "string"},
			},
			"required": []any{"questionText", "options", "explanation"},
		},
	}
}

const sampleQuestion = `{
	"questionText": "What does a derivative measure?",
	"options": [
		{"text": "Instantaneous rate of change", "isCorrect": true},
		{"text": "Area under a curve", "isCorrect": false},
		{"text": "Average of a function", "isCorrect": false}
	],
	"explanation": "The derivative is the limit of the difference quotient."
}`

func TestAnthropicProvider_LearningQuestion(t *testing.T) {
	var body map[string]any
	reply := anthropicReply(sampleQuestion, "end_turn")
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		reply(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write multiple-choice questions.",
		Messages:  []Message{{Role: RoleUser, Content: "One question on derivatives."}},
		Schema:    learningQuestionSchema(),
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["model"] != anthropicTestModel {
		t.Errorf("model = %v", body["model"])
	}
	if body["max_tokens"] != float64(512) {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	system, _ := body["system"].([]any)
	if len(system) != 1 || system[0].(map[string]any)["text"] != "You write multiple-choice questions." {
		t.Errorf("system = %v", body["system"])
	}
	if _, ok := body["output_config"]; !ok {
		t.Error("schema not sent as output_config")
	}

	var q struct {
		QuestionText string `json:"questionText"`
		Options      []struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"isCorrect"`
		} `json:"options"`
	}
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		t.Fatalf("content is not a question: %v", err)
	}
	if q.QuestionText != "What does a derivative measure?" || len(q.Options) != 3 || !q.Options[0].IsCorrect {
		t.Fatalf("unexpected question %+v", q)
	}
	if resp.Usage.TotalTokens != 200 {
		t.Errorf("total tokens = %d, want 200", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestAnthropicProvider_PlainText(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("A limit describes approach.", "end_turn"))

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "What is a limit?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "A limit describes approach." {
		t.Fatalf("text = %q", resp.Text())
	}
}

func TestAnthropicProvider_MaxTokensStop(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"questionText": "What does a deriv`, "max_tokens"))

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "One question."}},
		Schema:    learningQuestionSchema(),
		MaxTokens: 16,
	})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_SchemaViolation(t *testing.T) {
	tooFew := `{"questionText":"q","options":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}],"explanation":"e"}`
	p := newTestAnthropicProvider(t, anthropicReply(tooFew, "end_turn"))

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "One question."}},
		Schema:   learningQuestionSchema(),
	})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_NoTextBlock(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{},
			"model":       anthropicTestModel,
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 1, "output_tokens": 0},
		})
	})

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		errType string
		check   func(error) bool
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"overloaded", 529, "overloaded_error", func(err error) bool {
			var pu *ErrProviderUnavailable
			return errors.As(err, &pu)
		}},
		{"server error", http.StatusInternalServerError, "api_error", func(err error) bool {
			var pu *ErrProviderUnavailable
			return errors.As(err, &pu)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": tt.errType, "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %T (%v)", err, err)
			}
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	for name, want := range map[string]string{
		"claude-haiku":           "claude-haiku-4-5-20251001",
		"claude-sonnet":          "claude-sonnet-4-20250514",
		"claude-opus-4-20250514": "claude-opus-4-20250514",
	} {
		if got := resolveModel(name, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", name, got, want)
		}
	}
	p := &AnthropicProvider{model: anthropicTestModel}
	if p.ModelID() != anthropicTestModel {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}
