package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the event log",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		session, _ := cmd.Flags().GetString("session")
		kind, _ := cmd.Flags().GetString("kind")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		repo := e.store.EventRepo()
		opts := store.QueryOpts{Limit: limit, Purpose: purpose, Session: session}

		switch kind {
		case "llm":
			events, err := repo.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printLLMEvents(events)
		case "learning":
			events, err := repo.QueryLearningEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printLearningEvents(events)
		case "feedback":
			events, err := repo.QueryFeedbackEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printFeedbackEvents(events)
		default:
			return fmt.Errorf("unknown kind %q: use llm, learning or feedback", kind)
		}
		return nil
	},
}

func printLLMEvents(events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Println("No LLM events found.")
		return
	}

	fmt.Printf("%-5s  %-19s  %-18s  %-24s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Println(strings.Repeat("─", 100))

	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Printf("%-5d  %-19s  %-18s  %-24s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 18),
			truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func printLearningEvents(events []store.LearningEvent) {
	if len(events) == 0 {
		fmt.Println("No learning events found.")
		return
	}

	fmt.Printf("%-5s  %-19s  %-8s  %-20s  %-28s  %s\n",
		"ID", "Timestamp", "Session", "Action", "Topic", "Detail")
	fmt.Println(strings.Repeat("─", 100))

	for _, e := range events {
		detail := e.Detail
		if e.Action == store.ActionAnswered {
			mark := "✗"
			if e.Correct {
				mark = "✓"
			}
			detail = fmt.Sprintf("%s %d/%d", mark, e.TotalCorrect, e.TotalAnswered)
		}
		fmt.Printf("%-5d  %-19s  %-8s  %-20s  %-28s  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.SessionID, 8),
			e.Action,
			truncate(e.Topic, 28),
			detail,
		)
	}
}

func printFeedbackEvents(events []store.FeedbackEvent) {
	if len(events) == 0 {
		fmt.Println("No feedback events found.")
		return
	}

	fmt.Printf("%-5s  %-19s  %-36s  %-6s  %-9s  %s\n",
		"ID", "Timestamp", "Execution", "Rating", "Delivered", "Comment")
	fmt.Println(strings.Repeat("─", 100))

	for _, e := range events {
		fmt.Printf("%-5d  %-19s  %-36s  %-6d  %-9v  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.ExecutionID, 36),
			e.Rating,
			e.Delivered,
			e.Comment,
		)
	}
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", ev.ID)
		fmt.Printf("Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:  %s\n", ev.Provider)
		fmt.Printf("Model:     %s\n", ev.Model)
		fmt.Printf("Purpose:   %s\n", ev.Purpose)
		if ev.ExecutionID != "" {
			fmt.Printf("Execution: %s\n", ev.ExecutionID)
		}
		fmt.Printf("Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
		fmt.Printf("Latency:   %dms\n", ev.LatencyMs)
		fmt.Printf("Success:   %v\n", ev.Success)
		if ev.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", ev.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", ev.RequestBody},
			{"RESPONSE", ev.ResponseBody},
		} {
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(part.title)
			fmt.Println(sep)
			if part.body != "" {
				fmt.Println(part.body)
			} else {
				fmt.Println("(not captured)")
			}
		}

		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		stats, err := e.store.EventRepo().LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 82))
		fmt.Printf("%-18s  %6s  %8s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 82))

		var totalCalls, totalFailed, totalIn, totalOut int
		for _, st := range stats {
			total := st.InputTokens + st.OutputTokens
			fmt.Printf("%-18s  %6d  %8d  %10d  %10d  %10d  %8d\n",
				truncate(st.Purpose, 18), st.Calls, st.Failures, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalFailed += st.Failures
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 82))
		fmt.Printf("%-18s  %6d  %8d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalFailed, totalIn, totalOut, totalIn+totalOut)
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("kind", "k", "llm", "Event kind: llm, learning or feedback")
	eventsListCmd.Flags().StringP("purpose", "p", "", "Filter LLM events by purpose (e.g. foundations, learning-question)")
	eventsListCmd.Flags().StringP("session", "s", "", "Filter learning events by session id")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
