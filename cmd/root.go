package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Adaptive learning in the terminal",
	Long: "Pathwise checks three foundations of any topic you name, then the topic itself,\n" +
		"and suggests where to go next once you have mastered it.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config.toml (default $XDG_CONFIG_HOME/pathwise/config.toml)")
	flags.String("env-file", "", "Read PATHWISE_* variables from this file (default .env)")
	flags.String("db", "", "Path to SQLite database file (overrides PATHWISE_DB)")
	flags.String("provider", "", "LLM backend: promptly, anthropic, openai, gemini, openrouter or mock")
	flags.String("model", "", "Model name for the selected backend")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}
