package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hanru/internal/queue"
	"hanru/internal/services/backend"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs <project>",
		Short: "Show the backend's activity log for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}

				entries, err := client.Logs(cmd.Context(), project.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 && !follow {
					fmt.Fprintln(cmd.OutOrStdout(), "No log entries")
					return nil
				}
				printLogEntries(cmd, entries)
				if !follow {
					return nil
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				interval := time.Duration(cfg.Workflow.LogsPollInterval) * time.Second
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				printed := len(entries)
				for {
					select {
					case <-runCtx.Done():
						if errors.Is(runCtx.Err(), context.Canceled) {
							return nil
						}
						return runCtx.Err()
					case <-ticker.C:
						entries, err := client.Logs(runCtx, project.ID)
						if err != nil {
							// Transient backend hiccups should not kill the tail.
							continue
						}
						if len(entries) > printed {
							printLogEntries(cmd, entries[printed:])
							printed = len(entries)
						}
					}
				}
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new entries until interrupted")

	return cmd
}

func printLogEntries(cmd *cobra.Command, entries []backend.LogEntry) {
	for _, entry := range entries {
		if entry.Type != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", entry.Time, entry.Type, entry.Msg)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", entry.Time, entry.Msg)
		}
	}
}
