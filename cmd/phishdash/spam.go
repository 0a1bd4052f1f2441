package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dkathe/phishdash/internal/display"
	"github.com/dkathe/phishdash/internal/gmail"
)

var spamCmd = &cobra.Command{
	Use:   "spam MESSAGE_ID",
	Short: "Move a message to the spam folder",
	Long: `Add the SPAM label to a message. On failure the message stays where
it is; nothing is removed optimistically.`,
	Example: `  phishdash spam 18d5a7b3c4e5f6a7`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		messageID := args[0]

		session, err := openSession()
		if err != nil {
			return err
		}
		svc, err := session.Service(ctx)
		if err != nil {
			return err
		}

		client := gmail.NewClient(svc, logger)
		if err := client.MoveToSpam(ctx, messageID); err != nil {
			var authErr *gmail.AuthError
			if errors.As(err, &authErr) {
				display.ErrorMsg("session expired — run 'phishdash auth signin'")
			}
			return err
		}

		if !quietFlag {
			display.SuccessMsg("moved %s to spam", messageID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spamCmd)
}
