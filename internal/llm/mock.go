package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider.
type MockResponse struct {
	Content     json.RawMessage
	ExecutionID string
	Usage       Usage
	Err         error
}

// MockFeedback is a rating received by a MockProvider.
type MockFeedback struct {
	ExecutionID string
	Rating      int
	Comment     string
}

// MockProvider replays scripted responses in order and records requests.
// Schema-bearing requests are validated like a real backend would.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
	Feedback  []MockFeedback
}

// NewMockProvider creates a MockProvider scripted with responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate pops the next scripted response. An empty script yields
// ErrProviderUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{
		Content:     next.Content,
		ExecutionID: next.ExecutionID,
		Usage:       next.Usage,
		Model:       "mock",
		StopReason:  "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// SendFeedback records the rating.
func (m *MockProvider) SendFeedback(_ context.Context, executionID string, rating int, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Feedback = append(m.Feedback, MockFeedback{ExecutionID: executionID, Rating: rating, Comment: comment})
	return nil
}

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// AddJSON appends a scripted JSON response built from v.
func (m *MockProvider) AddJSON(v any, executionID string) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.AddResponse(MockResponse{Content: raw, ExecutionID: executionID})
}

// CallCount returns how many requests were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
