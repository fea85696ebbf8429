package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/llm"
)

const defaultChatSystem = "You are a patient tutor. Answer clearly and check understanding with a short follow-up question when it helps."

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the model in the terminal",
	Long: "Start an interactive chat. The conversation is kept between turns.\n" +
		"Type /reset to start over, /quit or Ctrl+D to leave.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		system, _ := cmd.Flags().GetString("system")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		provider, err := e.provider(cmd.Context())
		if err != nil {
			return err
		}

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeChat)
		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var history []llm.Message
		for {
			fmt.Fprint(out, "you> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				history = nil
				fmt.Fprintln(out, "(conversation cleared)")
				continue
			}

			history = append(history, llm.Message{Role: llm.RoleUser, Content: line})
			resp, err := provider.Generate(ctx, llm.Request{System: system, Messages: history})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Drop the unanswered turn so the user can retry.
				history = history[:len(history)-1]
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				continue
			}

			reply := resp.Text()
			history = append(history, llm.Message{Role: llm.RoleAssistant, Content: reply})
			fmt.Fprintf(out, "\n%s\n\n", reply)
		}
	},
}

// readLine reads one trimmed line from r.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	chatCmd.Flags().String("system", defaultChatSystem, "System prompt for the conversation")
}
