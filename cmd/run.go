package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/app"
	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/promptly"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	provider, err := e.provider(ctx)
	if err != nil {
		return err
	}

	eventRepo := e.store.EventRepo()
	gen := learning.NewGenerator(provider, learning.DefaultGeneratorConfig())
	machine := learning.New(gen, e.cfg.Learning, e.log, eventRepo)
	defer stopMachine(machine)

	opts := app.Options{
		Machine: machine,
		History: eventRepo,
		Log:     e.log,
		Rater: func(ctx context.Context, executionID string, rating int) error {
			return llm.SendFeedback(ctx, provider, executionID, rating, "")
		},
	}

	if e.cfg.LLM.Promptly.Client.APIKey != "" {
		client := promptly.New(e.cfg.LLM.Promptly.Client)
		svc, err := practice.NewService(client, e.cfg.Practice, eventRepo, e.log)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Practice unavailable:", err)
		} else {
			opts.Practice = svc
		}
	}

	e.log.Info("starting", "provider", e.cfg.LLM.Provider, "model", provider.ModelID(), "db", e.cfg.DBPath)
	return app.Run(ctx, opts)
}

// stopMachine cancels in-flight generation and waits for it to unwind. It
// must run before the store closes, since cancelled requests still log.
func stopMachine(m *learning.Machine) {
	m.Close()
	m.Wait()
}
