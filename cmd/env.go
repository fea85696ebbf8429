package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// env holds what a command opened. close releases it.
type env struct {
	cfg   *config.Config
	log   *logging.Logger
	store *store.Store
}

// loadConfig resolves configuration from the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	opts := config.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.EnvFile, _ = flags.GetString("env-file")
	opts.DBPath, _ = flags.GetString("db")
	opts.Provider, _ = flags.GetString("provider")
	opts.Model, _ = flags.GetString("model")

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openEnv loads config, builds the logger and opens the event store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		log.Sync()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &env{cfg: cfg, log: log, store: st}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("failed to close store", "error", err)
	}
	e.log.Sync()
}

// provider builds the configured LLM backend with event logging.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	return e.providerFor(ctx, e.cfg.LLM)
}

func (e *env) providerFor(ctx context.Context, cfg llm.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return p, nil
}
