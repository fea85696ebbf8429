package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/llm"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <execution-id>",
	Short: "Rate a generation",
	Long: "Rate the generation identified by an execution id, as printed by other\n" +
		"commands. The rating is sent to the backend and kept in the event log.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratingFlag, _ := cmd.Flags().GetString("rating")
		comment, _ := cmd.Flags().GetString("message")

		rating, err := parseRating(ratingFlag)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		provider, err := e.provider(cmd.Context())
		if err != nil {
			return err
		}

		err = llm.SendFeedback(cmd.Context(), provider, args[0], rating, comment)
		if errors.Is(err, llm.ErrFeedbackUnsupported) {
			return fmt.Errorf("the %s backend does not accept feedback", e.cfg.LLM.Provider)
		}
		if err != nil {
			return fmt.Errorf("send feedback: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Feedback recorded for %s.\n", args[0])
		return nil
	},
}

func parseRating(s string) (int, error) {
	switch s {
	case "up", "+1", "1", "good":
		return 1, nil
	case "down", "-1", "bad":
		return -1, nil
	case "clear", "0", "none":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid rating %q: use up, down or clear", s)
}

func init() {
	feedbackCmd.Flags().StringP("rating", "r", "up", "up, down or clear")
	feedbackCmd.Flags().StringP("message", "m", "", "Optional comment")
}
