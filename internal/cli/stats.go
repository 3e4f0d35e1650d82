package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show player counts and the most common play style",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
