package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// LoggingProvider records every request in the event log and the
// structured log.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	backend   string
	log       *logging.Logger
}

// WithLogging wraps p. repo may be nil, in which case only the structured
// log is written.
func WithLogging(p Provider, backend string, repo store.EventRepo, log *logging.Logger) Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &LoggingProvider{inner: p, eventRepo: repo, backend: backend, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.backend,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ExecutionID = resp.ExecutionID
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", "purpose", purpose, "model", data.Model, "latency", latency, "error", err)
	} else {
		l.log.Debug("llm request", "purpose", purpose, "model", data.Model, "latency", latency, "execution_id", data.ExecutionID)
	}

	if l.eventRepo != nil {
		// The caller's context may already be cancelled; the event is still
		// worth keeping.
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.log.Warn("failed to record llm request event", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// SendFeedback records the rating and forwards it to the wrapped provider.
func (l *LoggingProvider) SendFeedback(ctx context.Context, executionID string, rating int, comment string) error {
	err := sendFeedback(ctx, l.inner, executionID, rating, comment)
	if l.eventRepo != nil {
		data := store.FeedbackEventData{
			ExecutionID: executionID,
			Rating:      rating,
			Comment:     comment,
			Delivered:   err == nil,
		}
		if logErr := l.eventRepo.AppendFeedbackEvent(context.WithoutCancel(ctx), data); logErr != nil {
			l.log.Warn("failed to record feedback event", "error", logErr)
		}
	}
	return err
}

func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
