package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkathe/phishdash/internal/auth"
	"github.com/dkathe/phishdash/internal/display"
)

// authCmd is the parent command for session lifecycle operations.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Gmail session (signin, signout, status)",
}

var authSigninCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in to Gmail via the OAuth2 consent flow",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		if err := session.SignIn(context.Background(), os.Stdin, os.Stdout); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("signed in — token saved to %s", cfg.TokenPath())
		}
		return nil
	},
}

var authSignoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and discard the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		if err := session.SignOut(); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("signed out")
		}
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a usable session exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		if session.IsSignedIn() {
			fmt.Fprintln(cmd.OutOrStdout(), "signed in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "not signed in — run 'phishdash auth signin'")
		return nil
	},
}

// openSession builds the OAuth session from configuration.
func openSession() (*auth.Session, error) {
	return auth.Init(cfg.CredentialsPath(), cfg.TokenPath(), cfg.Scopes(), logger)
}

func init() {
	authCmd.AddCommand(authSigninCmd)
	authCmd.AddCommand(authSignoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
