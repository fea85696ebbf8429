package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// NewProvider builds the configured backend wrapped as
// caller -> timeout -> retry -> logging -> backend.
// eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logging.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case BackendPromptly:
		base, err = NewPromptlyProvider(cfg.Promptly)
	case BackendAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case BackendOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case BackendOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case BackendGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case BackendMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry, log)
	return WithTimeout(retried, cfg.Timeout), nil
}

// TimeoutProvider bounds each call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Generate call gets at most d. d <= 0 returns
// p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }

func (t *TimeoutProvider) SendFeedback(ctx context.Context, executionID string, rating int, comment string) error {
	return sendFeedback(ctx, t.inner, executionID, rating, comment)
}
