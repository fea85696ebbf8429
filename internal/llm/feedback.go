package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrFeedbackUnsupported is returned when the configured backend does not
// track executions.
var ErrFeedbackUnsupported = errors.New("llm: backend does not accept feedback")

// SendFeedback rates an execution through p, which may be a decorated
// provider.
func SendFeedback(ctx context.Context, p Provider, executionID string, rating int, comment string) error {
	return sendFeedback(ctx, p, executionID, rating, comment)
}

func sendFeedback(ctx context.Context, p Provider, executionID string, rating int, comment string) error {
	if rating < -1 || rating > 1 {
		return fmt.Errorf("llm: rating %d out of range", rating)
	}
	fs, ok := p.(FeedbackSender)
	if !ok {
		return ErrFeedbackUnsupported
	}
	return fs.SendFeedback(ctx, executionID, rating, comment)
}
