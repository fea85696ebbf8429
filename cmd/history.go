package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List mastered topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		topics, err := e.store.EventRepo().MasteredTopics(cmd.Context())
		if err != nil {
			return fmt.Errorf("query mastered topics: %w", err)
		}
		if len(topics) == 0 {
			fmt.Println("Nothing mastered yet.")
			return nil
		}

		fmt.Printf("%-40s  %5s  %s\n", "Topic", "Times", "Last mastered")
		fmt.Println(strings.Repeat("─", 72))
		for _, t := range topics {
			fmt.Printf("%-40s  %5d  %s\n",
				truncate(t.Topic, 40), t.Times, t.LastAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
