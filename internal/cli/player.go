package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Tracked player commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerShowCmd())
	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerEditCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players"
			if search != "" {
				path += "?" + url.Values{"q": {search}}.Encode()
			}

			var result PlayerList
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only players whose nickname or game id contains this")

	return cmd
}

func newPlayerShowCmd() *cobra.Command {
	var byGameID bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a player with its notes and tells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerDetail

			path := "/api/v1/players/" + url.PathEscape(args[0])
			if byGameID {
				path = "/api/v1/players/by-game/" + url.PathEscape(args[0])
			}
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&byGameID, "game-id", "g", false, "Treat the argument as a game id")

	return cmd
}

func newPlayerAddCmd() *cobra.Command {
	var gameID, nickname, style, notes, tells string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Start tracking a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameID == "" {
				return fmt.Errorf("--game-id is required")
			}

			req := map[string]string{
				"game_id":    gameID,
				"nickname":   nickname,
				"play_style": style,
				"notes":      notes,
				"tells":      tells,
			}
			var result Player

			if err := client.Post(cmd.Context(), "/api/v1/players", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game-id", "", "In-game identifier (required)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "Nickname")
	cmd.Flags().StringVar(&style, "style", "", "Play style: tight, loose, aggressive, passive, balanced")
	cmd.Flags().StringVar(&notes, "notes", "", "Initial notes")
	cmd.Flags().StringVar(&tells, "tells", "", "Initial tells")
	_ = cmd.MarkFlagRequired("game-id")

	return cmd
}

func newPlayerEditCmd() *cobra.Command {
	var nickname, style, note, tell string
	var expectedVersion int64

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a player and append notes or tells",
		Long: `Change a player's nickname or play style and append new notes or tells.

Nickname and style keep their current values unless given. New notes and tells
are added under your nickname; existing entries are never changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players/" + url.PathEscape(args[0])

			// The API replaces nickname and style, so start from the stored values
			var current PlayerDetail
			if err := client.Get(cmd.Context(), path, &current); err != nil {
				return err
			}

			req := map[string]any{
				"nickname":   current.Player.Nickname,
				"play_style": current.Player.PlayStyle,
				"new_notes":  note,
				"new_tells":  tell,
			}
			if cmd.Flags().Changed("nickname") {
				req["nickname"] = nickname
			}
			if cmd.Flags().Changed("style") {
				req["play_style"] = style
			}
			if cmd.Flags().Changed("expected-version") {
				req["expected_version"] = expectedVersion
			}

			var result Player
			if err := client.Patch(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "New nickname")
	cmd.Flags().StringVar(&style, "style", "", "New play style")
	cmd.Flags().StringVar(&note, "note", "", "Note to append")
	cmd.Flags().StringVar(&tell, "tell", "", "Tell to append")
	cmd.Flags().Int64Var(&expectedVersion, "expected-version", 0, "Fail instead of merging if the player has changed since this version")

	return cmd
}
