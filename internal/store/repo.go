package store

import (
	"context"
	"time"
)

// QueryOpts filters and paginates event queries. Results come newest first.
type QueryOpts struct {
	Limit   int    // 0 = unlimited
	After   int64  // sequence > After
	Before  int64  // sequence < Before
	Purpose string // LLM events only
	Session string // learning events only
}

// LLMRequestEventData is one model call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	ExecutionID  string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls by purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Learning actions.
const (
	ActionStarted            = "started"
	ActionFoundationsReady   = "foundations_ready"
	ActionAnswered           = "answered"
	ActionFoundationalPassed = "foundational_passed"
	ActionMainPassed         = "main_passed"
	ActionNextStepsReady     = "next_steps_ready"
	ActionNextStepSelected   = "next_step_selected"
	ActionGenerationFailed   = "generation_failed"
	ActionReset              = "reset"
)

// LearningEventData is one step of an adaptive learning session.
type LearningEventData struct {
	SessionID     string
	Action        string
	Topic         string
	OriginalTopic string
	// FoundationalIndex is -1 for events about the main topic.
	FoundationalIndex int
	Correct           bool
	TotalAnswered     int
	TotalCorrect      int
	ExecutionID       string
	Detail            string
}

// LearningEvent is a stored LearningEventData.
type LearningEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LearningEventData
}

// MasteredTopic summarizes the main-topic passes for one topic.
type MasteredTopic struct {
	Topic  string
	Times  int
	LastAt time.Time
}

// FeedbackEventData is a learner rating of one execution.
type FeedbackEventData struct {
	ExecutionID string
	Rating      int
	Comment     string
	Delivered   bool
}

// FeedbackEvent is a stored FeedbackEventData.
type FeedbackEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	FeedbackEventData
}

// EventRepo appends and queries events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns nil, nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	AppendLearningEvent(ctx context.Context, data LearningEventData) error
	QueryLearningEvents(ctx context.Context, opts QueryOpts) ([]LearningEvent, error)
	MasteredTopics(ctx context.Context) ([]MasteredTopic, error)

	AppendFeedbackEvent(ctx context.Context, data FeedbackEventData) error
	QueryFeedbackEvents(ctx context.Context, opts QueryOpts) ([]FeedbackEvent, error)
}

type eventRepo struct {
	db  sqlxDB
	seq *sequenceCounter
}
