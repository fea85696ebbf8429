package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

var openrouterModels = map[string]string{
	"claude-sonnet": "anthropic/claude-sonnet-4",
	"gpt-4o-mini":   "openai/gpt-4o-mini",
	"llama3-1-70b":  "meta-llama/llama-3.1-70b-instruct",
}

// OpenRouterProvider reuses the OpenAI client against OpenRouter's
// compatible endpoint.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates an OpenRouter backend.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	inner := newOpenAICompatible(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openrouterModels)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
