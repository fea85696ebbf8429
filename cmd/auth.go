package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the prompt API launch token",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the launch token subject and expiry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := cfg.LLM.Promptly.Client
		now := time.Now()

		tok, err := auth.Parse(client.LaunchToken)
		switch {
		case errors.Is(err, auth.ErrNoToken):
			fmt.Println("No launch token configured.")
		case err != nil:
			fmt.Printf("Launch token unreadable: %v\n", err)
		default:
			fmt.Printf("Subject:  %s\n", tok.Subject())
			if exp, ok := tok.ExpiresAt(); ok {
				fmt.Printf("Expires:  %s (%s)\n", exp.Local().Format("2006-01-02 15:04"), exp.Sub(now).Round(time.Minute))
			} else {
				fmt.Println("Expires:  unknown")
			}
			if !tok.ShouldRenew(now) {
				return nil
			}
		}

		renew, err := auth.RenewURL(client.BaseURL, "", false)
		if err != nil {
			return err
		}
		fmt.Printf("Renew at: %s\n", renew)
		return nil
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}
