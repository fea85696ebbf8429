package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
)

// Generator produces the content a learning session needs.
type Generator interface {
	FoundationalTopics(ctx context.Context, topic string) (Topics, error)
	NextSteps(ctx context.Context, topic string) (Topics, error)
	Question(ctx context.Context, req QuestionRequest) (*Entry, error)
}

// Topics is a generated list of three topics.
type Topics struct {
	Items       []string
	ExecutionID string
}

// QuestionRequest asks for one question about Topics.
type QuestionRequest struct {
	Target Target
	Topics []string
	// Avoid lists question texts already queued or shown for the target.
	Avoid []string
}

// GeneratorConfig tunes LLM requests.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns the default request settings.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// LLMGenerator implements Generator on an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   GeneratorConfig
}

// NewGenerator creates an LLMGenerator.
func NewGenerator(provider llm.Provider, cfg GeneratorConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type topicsOutput struct {
	Topics []string `json:"topics"`
}

func (g *LLMGenerator) FoundationalTopics(ctx context.Context, topic string) (Topics, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeFoundations)
	return g.topics(ctx, foundationsPrompt(topic), FoundationalTopicsSchema)
}

func (g *LLMGenerator) NextSteps(ctx context.Context, topic string) (Topics, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeNextSteps)
	return g.topics(ctx, nextStepsPrompt(topic), NextStepsSchema)
}

func (g *LLMGenerator) topics(ctx context.Context, prompt string, schema *llm.Schema) (Topics, error) {
	resp, err := g.provider.Generate(ctx, g.request(prompt, schema))
	if err != nil {
		return Topics{}, fmt.Errorf("generate %s: %w", schema.Name, err)
	}

	var out topicsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Topics{}, fmt.Errorf("parse %s: %w", schema.Name, err)
	}
	if len(out.Topics) != 3 {
		return Topics{}, fmt.Errorf("parse %s: got %d topics, want 3", schema.Name, len(out.Topics))
	}
	for i, t := range out.Topics {
		out.Topics[i] = strings.TrimSpace(t)
		if out.Topics[i] == "" {
			return Topics{}, fmt.Errorf("parse %s: topic %d is empty", schema.Name, i)
		}
	}
	return Topics{Items: out.Topics, ExecutionID: resp.ExecutionID}, nil
}

// Question generates one question and validates that exactly one option is
// correct.
func (g *LLMGenerator) Question(ctx context.Context, req QuestionRequest) (*Entry, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLearningQuestion)

	resp, err := g.provider.Generate(ctx, g.request(questionPrompt(req), LearningQuestionSchema))
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	var q Question
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, fmt.Errorf("parse question: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &Entry{Question: q, ExecutionID: resp.ExecutionID, Target: req.Target}, nil
}

func (g *LLMGenerator) request(prompt string, schema *llm.Schema) llm.Request {
	req := llm.UserPrompt(prompt, schema)
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature
	return req
}
