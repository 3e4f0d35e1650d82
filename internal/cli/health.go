package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server and storage health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			deadline := time.Now().Add(wait)

			for {
				err := client.Get(cmd.Context(), "/api/v1/health", &result)
				if err == nil {
					break
				}
				if time.Now().After(deadline) {
					return err
				}

				select {
				case <-cmd.Context().Done():
					return fmt.Errorf("gave up waiting: %w", cmd.Context().Err())
				case <-time.After(500 * time.Millisecond):
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying until the server is healthy or this long has passed")

	return cmd
}
