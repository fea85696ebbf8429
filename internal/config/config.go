package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/practice"
)

const envPrefix = "PATHWISE_"

// Config is the resolved application configuration.
type Config struct {
	LLM      llm.Config
	Learning learning.Config
	Practice practice.Config
	Log      logging.Config
	DBPath   string

	// ConfigPath is the TOML file that was consulted.
	ConfigPath string
}

// Options carries the command-line overrides.
type Options struct {
	// ConfigPath overrides the default TOML path. An explicit path must
	// exist.
	ConfigPath string
	// EnvFile is read for PATHWISE_* variables not set in the environment.
	// Empty means ".env" in the working directory.
	EnvFile string

	DBPath   string
	Provider string
	Model    string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:      llm.DefaultConfig(),
		Learning: learning.DefaultConfig(),
		Practice: practice.DefaultConfig(),
		Log: logging.Config{
			Mode:  "dev",
			File:  DefaultLogPath(),
			Level: "info",
		},
		DBPath: DefaultDBPath(),
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path := opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ConfigPath = path
	cfg.applyFile(fc)

	lookup, err := envLookup(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.applyOptions(opts)
	return &cfg, nil
}

// Validate checks the settings needed to generate content.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Learning.QueueTarget < 0 {
		return fmt.Errorf("learning queue target must be >= 0")
	}
	return c.LLM.Validate()
}

func (c *Config) applyFile(fc FileConfig) {
	setString(&c.DBPath, fc.DB)

	p := &c.LLM.Promptly
	setString(&p.Client.BaseURL, fc.API.Host)
	setString(&p.Client.APIKey, fc.API.APIKey)
	setString(&p.Client.LaunchToken, fc.API.LaunchToken)
	setString(&p.Model, fc.API.Model)
	setInt(&p.Client.PromptIDs.Generate, fc.API.GeneratePrompt)
	setInt(&p.Client.PromptIDs.JSON, fc.API.JSONPrompt)
	setInt(&p.Client.PromptIDs.Chat, fc.API.ChatPrompt)

	setString(&c.LLM.Provider, fc.LLM.Provider)
	setDuration(&c.LLM.Timeout, fc.LLM.Timeout)
	setInt(&c.LLM.Retry.MaxAttempts, fc.LLM.Retry.MaxAttempts)
	setDuration(&c.LLM.Retry.InitialWait, fc.LLM.Retry.InitialWait)
	setDuration(&c.LLM.Retry.MaxWait, fc.LLM.Retry.MaxWait)

	setString(&c.LLM.Anthropic.APIKey, fc.LLM.Anthropic.APIKey)
	setString(&c.LLM.Anthropic.Model, fc.LLM.Anthropic.Model)
	setString(&c.LLM.Anthropic.BaseURL, fc.LLM.Anthropic.BaseURL)
	setString(&c.LLM.OpenAI.APIKey, fc.LLM.OpenAI.APIKey)
	setString(&c.LLM.OpenAI.Model, fc.LLM.OpenAI.Model)
	setString(&c.LLM.OpenAI.BaseURL, fc.LLM.OpenAI.BaseURL)
	setString(&c.LLM.Gemini.APIKey, fc.LLM.Gemini.APIKey)
	setString(&c.LLM.Gemini.Model, fc.LLM.Gemini.Model)
	setString(&c.LLM.OpenRouter.APIKey, fc.LLM.OpenRouter.APIKey)
	setString(&c.LLM.OpenRouter.Model, fc.LLM.OpenRouter.Model)
	setString(&c.LLM.OpenRouter.BaseURL, fc.LLM.OpenRouter.BaseURL)

	setDuration(&c.Learning.SettleDelay, fc.Learning.SettleDelay)
	setInt(&c.Learning.QueueTarget, fc.Learning.QueueTarget)
	setDuration(&c.Learning.PrefetchRetryDelay, fc.Learning.PrefetchRetryDelay)

	setInt(&c.Practice.PromptID, fc.Practice.PromptID)
	setString(&c.Practice.Alias, fc.Practice.Alias)
	setString(&c.Practice.Model, fc.Practice.Model)

	setString(&c.Log.Mode, fc.Log.Mode)
	setString(&c.Log.File, fc.Log.File)
	setString(&c.Log.Level, fc.Log.Level)
}

type lookupFunc func(key string) (string, bool)

// envLookup consults the process environment first and the env file second.
// The env file is never written into the process environment.
func envLookup(file string) (lookupFunc, error) {
	explicit := file != ""
	if !explicit {
		file = ".env"
	}
	values, err := godotenv.Read(file)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			values = nil
		} else {
			return nil, fmt.Errorf("read env file %s: %w", file, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(dst *string, key string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(dst *int, key string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(dst *time.Duration, key string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str(&c.DBPath, "DB")

	p := &c.LLM.Promptly
	str(&p.Client.BaseURL, "API_HOST")
	str(&p.Client.APIKey, "API_KEY")
	str(&p.Client.LaunchToken, "LAUNCH_TOKEN")
	str(&p.Model, "MODEL")

	str(&c.LLM.Provider, "LLM_PROVIDER")
	dur(&c.LLM.Timeout, "LLM_TIMEOUT")
	str(&c.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	str(&c.LLM.Anthropic.Model, "ANTHROPIC_MODEL")
	str(&c.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	str(&c.LLM.OpenAI.Model, "OPENAI_MODEL")
	str(&c.LLM.OpenAI.BaseURL, "OPENAI_BASE_URL")
	str(&c.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	str(&c.LLM.Gemini.Model, "GEMINI_MODEL")
	str(&c.LLM.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	str(&c.LLM.OpenRouter.Model, "OPENROUTER_MODEL")

	dur(&c.Learning.SettleDelay, "SETTLE_DELAY")
	num(&c.Learning.QueueTarget, "QUEUE_TARGET")

	str(&c.Log.Mode, "LOG_MODE")
	str(&c.Log.File, "LOG_FILE")
	str(&c.Log.Level, "LOG_LEVEL")

	return errors.Join(errs...)
}

func (c *Config) applyOptions(opts Options) {
	if opts.DBPath != "" {
		c.DBPath = opts.DBPath
	}
	if opts.Provider != "" {
		c.LLM.Provider = opts.Provider
	}
	if opts.Model != "" {
		c.SetModel(opts.Model)
	}
}

// SetModel sets the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.LLM.Provider {
	case llm.BackendPromptly:
		c.LLM.Promptly.Model = model
	case llm.BackendAnthropic:
		c.LLM.Anthropic.Model = model
	case llm.BackendOpenAI:
		c.LLM.OpenAI.Model = model
	case llm.BackendGemini:
		c.LLM.Gemini.Model = model
	case llm.BackendOpenRouter:
		c.LLM.OpenRouter.Model = model
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
