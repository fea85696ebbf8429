package llm

import (
	"fmt"
	"time"

	"github.com/abhisek/pathwise/internal/promptly"
)

// Backend names accepted by Config.Provider.
const (
	BackendPromptly   = "promptly"
	BackendAnthropic  = "anthropic"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
	BackendMock       = "mock"
)

// Config selects and configures the generation backend.
type Config struct {
	Provider string

	Promptly   PromptlyConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// PromptlyConfig configures the hosted prompt API backend.
type PromptlyConfig struct {
	Client promptly.Config
	// Model is a name from promptly.Models or a numeric id.
	Model string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the hosted prompt API with stock settings.
func DefaultConfig() Config {
	return Config{
		Provider: BackendPromptly,
		Promptly: PromptlyConfig{
			Client: promptly.Config{
				BaseURL:   promptly.DefaultBaseURL,
				PromptIDs: promptly.DefaultPromptIDs(),
			},
			Model: promptly.DefaultModel,
		},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// Validate checks that the selected backend has its credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case BackendPromptly:
		if c.Promptly.Client.APIKey == "" {
			return fmt.Errorf("PATHWISE_API_KEY is required for the promptly provider")
		}
		if _, err := promptly.ResolveModel(c.Promptly.Model); err != nil {
			return err
		}
	case BackendAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("PATHWISE_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("PATHWISE_OPENAI_API_KEY is required for the openai provider")
		}
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("PATHWISE_GEMINI_API_KEY is required for the gemini provider")
		}
	case BackendOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("PATHWISE_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
