package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish unset from zero.
type FileConfig struct {
	DB       *string      `toml:"db"`
	API      APIFile      `toml:"api"`
	LLM      LLMFile      `toml:"llm"`
	Learning LearningFile `toml:"learning"`
	Practice PracticeFile `toml:"practice"`
	Log      LogFile      `toml:"log"`
}

// APIFile maps the hosted prompt API settings.
type APIFile struct {
	Host           *string `toml:"host"`
	APIKey         *string `toml:"api-key"`
	LaunchToken    *string `toml:"launch-token"`
	Model          *string `toml:"model"`
	GeneratePrompt *int    `toml:"generate-prompt"`
	JSONPrompt     *int    `toml:"json-prompt"`
	ChatPrompt     *int    `toml:"chat-prompt"`
}

// LLMFile maps backend selection and tuning.
type LLMFile struct {
	Provider   *string     `toml:"provider"`
	Timeout    *Duration   `toml:"timeout"`
	Retry      RetryFile   `toml:"retry"`
	Anthropic  BackendFile `toml:"anthropic"`
	OpenAI     BackendFile `toml:"openai"`
	Gemini     BackendFile `toml:"gemini"`
	OpenRouter BackendFile `toml:"openrouter"`
}

// BackendFile maps one direct model backend.
type BackendFile struct {
	APIKey  *string `toml:"api-key"`
	Model   *string `toml:"model"`
	BaseURL *string `toml:"base-url"`
}

// RetryFile maps retry tuning.
type RetryFile struct {
	MaxAttempts *int      `toml:"max-attempts"`
	InitialWait *Duration `toml:"initial-wait"`
	MaxWait     *Duration `toml:"max-wait"`
}

// LearningFile maps adaptive learning tuning.
type LearningFile struct {
	SettleDelay        *Duration `toml:"settle-delay"`
	QueueTarget        *int      `toml:"queue-target"`
	PrefetchRetryDelay *Duration `toml:"prefetch-retry-delay"`
}

// PracticeFile maps the grading prompt.
type PracticeFile struct {
	PromptID *int    `toml:"prompt-id"`
	Alias    *string `toml:"alias"`
	Model    *string `toml:"model"`
}

// LogFile maps logger settings.
type LogFile struct {
	Mode  *string `toml:"mode"`
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// Duration decodes TOML strings such as "1500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
