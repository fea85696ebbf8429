package practice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/promptly"
	"github.com/abhisek/pathwise/internal/store"
)

type fakeExecutor struct {
	promptID int
	alias    string
	req      promptly.ExecuteRequest
	body     string
	err      error
}

func (f *fakeExecutor) Execute(_ context.Context, promptID int, alias string, req promptly.ExecuteRequest) (*promptly.ExecuteResult, error) {
	f.promptID = promptID
	f.alias = alias
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &promptly.ExecuteResult{Body: json.RawMessage(f.body), ExecutionID: "4242"}, nil
}

const goodBody = `{"data":{"score":4,"feedback":"Nice work.","followUpQuestion":"What is the slope through (0,0) and (3,9)?","adjustedDifficulty":"hard"}}`

func TestEvaluate(t *testing.T) {
	exec := &fakeExecutor{body: goodBody}
	svc, err := NewService(exec, DefaultConfig(), nil, nil)
	require.NoError(t, err)

	res, err := svc.Evaluate(context.Background(), InitialQuestion(), "  m = 2  ")
	require.NoError(t, err)
	assert.Equal(t, "4242", res.ExecutionID)
	assert.Equal(t, 4.0, res.Feedback.Score)
	assert.Equal(t, DifficultyHard, res.Feedback.AdjustedDifficulty)

	assert.Equal(t, 26, exec.promptID)
	assert.Equal(t, "live", exec.alias)
	assert.Equal(t, 1, exec.req.ModelID)
	in := exec.req.Input.(evaluateInput)
	assert.Equal(t, "m = 2", in.StudentAnswer)
	assert.Equal(t, "mathematics", in.Subject)
}

func TestEvaluate_EmptyAnswer(t *testing.T) {
	exec := &fakeExecutor{body: goodBody}
	svc, err := NewService(exec, DefaultConfig(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), InitialQuestion(), " \n ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Zero(t, exec.promptID)
}

func TestEvaluate_ScoreOutOfRange(t *testing.T) {
	exec := &fakeExecutor{body: `{"data":{"score":9,"feedback":"x","followUpQuestion":"y","adjustedDifficulty":"easy"}}`}
	svc, err := NewService(exec, DefaultConfig(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), InitialQuestion(), "2")
	var invalid *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid))
}

func TestEvaluate_ExecutorError(t *testing.T) {
	exec := &fakeExecutor{err: promptly.ErrUnauthorized}
	svc, err := NewService(exec, DefaultConfig(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), InitialQuestion(), "2")
	assert.ErrorIs(t, err, promptly.ErrUnauthorized)
}

func TestNewService_UnknownModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "no-such-model"
	_, err := NewService(&fakeExecutor{}, cfg, nil, nil)
	assert.Error(t, err)
}

func TestEvaluate_RecordsEvent(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer st.Close()

	svc, err := NewService(&fakeExecutor{body: goodBody}, DefaultConfig(), st.EventRepo(), nil)
	require.NoError(t, err)
	_, err = svc.Evaluate(context.Background(), InitialQuestion(), "2")
	require.NoError(t, err)

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: llm.PurposePracticeReview})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, "4242", events[0].ExecutionID)
}

func TestEvaluate_AgainstPromptlyClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prompts/26/execute", r.URL.Path)
		assert.Equal(t, "live", r.URL.Query().Get("alias"))
		w.Header().Set("X-Execution-ID", "77")
		_, _ = w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	client := promptly.New(promptly.Config{BaseURL: srv.URL, APIKey: "k"})
	svc, err := NewService(client, DefaultConfig(), nil, nil)
	require.NoError(t, err)

	res, err := svc.Evaluate(context.Background(), InitialQuestion(), "2")
	require.NoError(t, err)
	assert.Equal(t, "77", res.ExecutionID)
}

func TestNextQuestion(t *testing.T) {
	prev := InitialQuestion()
	now := time.UnixMilli(1700000000000)

	next := NextQuestion(prev, Feedback{FollowUpQuestion: "Find the slope.", AdjustedDifficulty: DifficultyEasy}, now)
	assert.Equal(t, "1700000000000", next.ID)
	assert.Equal(t, "Find the slope.", next.Text)
	assert.Equal(t, DifficultyEasy, next.Difficulty)
	assert.Equal(t, prev.Subject, next.Subject)
	assert.Equal(t, prev.Rubric, next.Rubric)
	assert.Empty(t, next.ExpectedAnswer)

	keep := NextQuestion(prev, Feedback{FollowUpQuestion: "x"}, now)
	assert.Equal(t, DifficultyMedium, keep.Difficulty)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	_, err = ParseDifficulty("extreme")
	assert.Error(t, err)
}
