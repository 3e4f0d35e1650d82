package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account and session commands",
	}

	cmd.AddCommand(newAuthSignUpCmd())
	cmd.AddCommand(newAuthSignInCmd())
	cmd.AddCommand(newAuthSignOutCmd())
	cmd.AddCommand(newAuthMeCmd())

	return cmd
}

func newAuthSignUpCmd() *cobra.Command {
	var email, pass, nickname string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || pass == "" || nickname == "" {
				return fmt.Errorf("--email, --pass, and --nickname are required")
			}

			req := map[string]string{
				"email":    email,
				"password": pass,
				"nickname": nickname,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/api/v1/auth/signup", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "Nickname shown on your entries (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")
	_ = cmd.MarkFlagRequired("nickname")

	return cmd
}

func newAuthSignInCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || pass == "" {
				return fmt.Errorf("--email and --pass are required")
			}

			req := map[string]string{
				"email":    email,
				"password": pass,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/api/v1/auth/signin", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAuthSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				if err := client.Post(cmd.Context(), "/api/v1/auth/signout", nil, nil); err != nil {
					return err
				}
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Signed out")
			return nil
		},
	}
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Identity

			if err := client.Get(cmd.Context(), "/api/v1/auth/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
