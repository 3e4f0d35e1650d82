package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile directory commands",
	}

	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileRenameCmd())

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List everyone's nicknames",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProfileList

			if err := client.Get(cmd.Context(), "/api/v1/profiles", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileRenameCmd() *cobra.Command {
	var nickname string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change your nickname",
		RunE: func(cmd *cobra.Command, args []string) error {
			if nickname == "" {
				return fmt.Errorf("--nickname is required")
			}

			var result Profile
			if err := client.Patch(cmd.Context(), "/api/v1/profiles/me", map[string]string{"nickname": nickname}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "New nickname (required)")
	_ = cmd.MarkFlagRequired("nickname")

	return cmd
}
