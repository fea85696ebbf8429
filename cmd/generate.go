package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one-off generations",
}

var generateTextCmd = &cobra.Command{
	Use:   "text [prompt]",
	Short: "Generate text from a prompt",
	Long: "Generate text from a prompt given as an argument or on stdin.\n" +
		"With --compare the prompt runs against each listed model concurrently.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := promptArg(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if prompt == "" {
			return fmt.Errorf("prompt is empty")
		}
		if snippet, _ := cmd.Flags().GetBool("math"); snippet {
			prompt += "\n\n" + llm.MathWithMarkdown
		}
		models, _ := cmd.Flags().GetStringSlice("compare")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeText)
		if len(models) == 0 {
			provider, err := e.provider(ctx)
			if err != nil {
				return err
			}
			out, err := generateText(ctx, provider, prompt)
			if err != nil {
				return err
			}
			printText(cmd.OutOrStdout(), "", out)
			return nil
		}

		results := make([]textResult, len(models))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, model := range models {
			cfg := *e.cfg
			cfg.SetModel(model)
			provider, err := e.providerFor(ctx, cfg.LLM)
			if err != nil {
				return fmt.Errorf("model %s: %w", model, err)
			}
			g.Go(func() error {
				out, err := generateText(gctx, provider, prompt)
				if err != nil {
					// One failing model should not hide the others.
					results[i] = textResult{Text: "error: " + err.Error()}
					return nil
				}
				results[i] = *out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for i, model := range models {
			printText(cmd.OutOrStdout(), model, &results[i])
		}
		return nil
	},
}

type textResult struct {
	Text        string
	ExecutionID string
	Model       string
}

func generateText(ctx context.Context, p llm.Provider, prompt string) (*textResult, error) {
	resp, err := p.Generate(ctx, llm.UserPrompt(prompt, nil))
	if err != nil {
		return nil, fmt.Errorf("generate text: %w", err)
	}
	return &textResult{Text: resp.Text(), ExecutionID: resp.ExecutionID, Model: resp.Model}, nil
}

func printText(w io.Writer, heading string, r *textResult) {
	if heading != "" {
		fmt.Fprintf(w, "── %s %s\n", heading, strings.Repeat("─", max(0, 56-len(heading))))
	}
	fmt.Fprintln(w, r.Text)
	if r.ExecutionID != "" {
		fmt.Fprintf(w, "\nexecution: %s\n", r.ExecutionID)
	}
	if heading != "" {
		fmt.Fprintln(w)
	}
}

var generateJSONCmd = &cobra.Command{
	Use:   "json [prompt]",
	Short: "Generate a structured assessment question",
	Long: "Generate an open-response or multiple-choice question. With --answer the\n" +
		"answer is reviewed and scored. Pass --answer - to read it from stdin.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := assessment.DefaultPrompt
		if len(args) == 1 {
			prompt = args[0]
		}
		answer, _ := cmd.Flags().GetString("answer")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		provider, err := e.provider(cmd.Context())
		if err != nil {
			return err
		}
		svc := assessment.NewService(provider)

		gen, err := svc.Generate(cmd.Context(), prompt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printAssessmentQuestion(out, gen)

		if answer == "" {
			return nil
		}
		if answer == "-" {
			fmt.Fprint(out, "\nYour answer: ")
			if answer, err = readLine(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		review, err := svc.Review(cmd.Context(), gen.Question, answer)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nScore: %s\n%s\n", review.Percent(), review.Feedback)
		if review.ExecutionID != "" {
			fmt.Fprintf(out, "\nexecution: %s\n", review.ExecutionID)
		}
		return nil
	},
}

func printAssessmentQuestion(w io.Writer, g *assessment.Generated) {
	q := g.Question
	fmt.Fprintf(w, "[%s]\n%s\n", q.Kind, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(w, "  %c) %s\n", 'A'+i, opt)
	}
	if g.ExecutionID != "" {
		fmt.Fprintf(w, "\nexecution: %s\n", g.ExecutionID)
	}
}

// promptArg returns the prompt argument, or stdin when there is none or it
// is "-".
func promptArg(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no prompt given; pass it as an argument or pipe it on stdin")
		}
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func init() {
	generateTextCmd.Flags().Bool("math", true, "Append the math/markdown formatting instructions")
	generateTextCmd.Flags().StringSlice("compare", nil, "Run against each of these models (comma separated)")
	generateJSONCmd.Flags().String("answer", "", "Answer to review; - reads it from stdin")

	generateCmd.AddCommand(generateTextCmd)
	generateCmd.AddCommand(generateJSONCmd)
}
