package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels recorded with each request event.
const (
	PurposeFoundations      = "foundations"
	PurposeNextSteps        = "next-steps"
	PurposeLearningQuestion = "learning-question"
	PurposePracticeReview   = "practice-review"
	PurposeAssessment       = "assessment"
	PurposeAssessmentReview = "assessment-review"
	PurposeChat             = "chat"
	PurposeText             = "text"
)

// WithPurpose tags ctx with what the request is for.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose tag of ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
