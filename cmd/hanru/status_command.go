package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jobID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check backend reachability and, optionally, a translation job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := client.CheckHealth(cmd.Context()); err != nil {
				return fmt.Errorf("backend %s is unreachable: %w", cfg.Backend.URL, err)
			}
			fmt.Fprintf(out, "Backend %s is healthy\n", cfg.Backend.URL)

			if jobID != "" {
				status, err := client.TranslateJobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if status.Progress > 0 {
					fmt.Fprintf(out, "Job %s: %s (%.0f%%)\n", jobID, status.Status, status.Progress*100)
				} else {
					fmt.Fprintf(out, "Job %s: %s\n", jobID, status.Status)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Also report this translation job's backend status")

	return cmd
}
