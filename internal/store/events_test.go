package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMEvents_QueryAndGet(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"foundations", "learning-question", "learning-question"} {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "promptly",
			Model:        "gpt-4o",
			Purpose:      purpose,
			ExecutionID:  string(rune('a' + i)),
			InputTokens:  10,
			OutputTokens: 5,
			LatencyMs:    int64(100 * (i + 1)),
			Success:      i != 2,
			RequestBody:  "[user]\nhi",
		}))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ExecutionID, "newest first")

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "learning-question", Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.False(t, filtered[0].Success)

	e, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "foundations", e.Purpose)
	assert.Equal(t, "[user]\nhi", e.RequestBody)
	assert.False(t, e.Timestamp.IsZero())

	missing, err := repo.GetLLMEvent(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageByPurpose(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "a", InputTokens: 10, OutputTokens: 1, LatencyMs: 100, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "a", InputTokens: 20, OutputTokens: 2, LatencyMs: 300, Success: false}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "b", InputTokens: 5, Success: true}))

	stats, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, PurposeUsage{Purpose: "a", Calls: 2, Failures: 1, InputTokens: 30, OutputTokens: 3, AvgLatencyMs: 200}, stats[0])
	assert.Equal(t, "b", stats[1].Purpose)
}

func TestLearningEvents_MasteredTopics(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	appendEvent := func(session, action, topic string) {
		t.Helper()
		require.NoError(t, repo.AppendLearningEvent(ctx, LearningEventData{
			SessionID: session, Action: action, Topic: topic, FoundationalIndex: -1,
		}))
	}
	appendEvent("s1", ActionStarted, "fractions")
	appendEvent("s1", ActionMainPassed, "fractions")
	appendEvent("s1", ActionNextStepSelected, "ratios")
	appendEvent("s2", ActionMainPassed, "ratios")
	appendEvent("s3", ActionMainPassed, "fractions")

	mastered, err := repo.MasteredTopics(ctx)
	require.NoError(t, err)
	require.Len(t, mastered, 2)
	assert.Equal(t, "fractions", mastered[0].Topic)
	assert.Equal(t, 2, mastered[0].Times)
	assert.Equal(t, 1, mastered[1].Times)

	s1, err := repo.QueryLearningEvents(ctx, QueryOpts{Session: "s1"})
	require.NoError(t, err)
	assert.Len(t, s1, 3)
	assert.Equal(t, -1, s1[0].FoundationalIndex)
}

func TestLearningEvents_RequiresSessionAndAction(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	err := repo.AppendLearningEvent(context.Background(), LearningEventData{Action: ActionStarted})
	assert.Error(t, err)
}

func TestQueryOpts_SequenceWindow(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendFeedbackEvent(ctx, FeedbackEventData{ExecutionID: "x", Rating: 1, Delivered: true}))
	}

	events, err := repo.QueryFeedbackEvents(ctx, QueryOpts{After: 1, Before: 5})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, int64(4), events[0].Sequence)
	assert.Equal(t, int64(2), events[2].Sequence)
	assert.True(t, events[0].Delivered)
}
