package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hanru/internal/queue"
	"hanru/internal/scheduler"
	"hanru/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var noInbox bool

	cmd := &cobra.Command{
		Use:   "watch <project>",
		Short: "Poll for completed translations and watch the inbox for new uploads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
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

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				intake := scheduler.NewIntake(client, store, logger, ctx.completedPollInterval())

				errCh := make(chan error, 2)
				go func() {
					errCh <- intake.Run(runCtx, project.ID)
				}()

				running := 1
				if !noInbox {
					watcher := watch.New(cfg.Paths.InboxDir, project.ID, store, logger)
					go func() {
						errCh <- watcher.Run(runCtx)
					}()
					running++
					fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for uploads\n", cfg.Paths.InboxDir)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Polling completed translations for %q every %s (Ctrl-C to stop)\n",
					project.Name, ctx.completedPollInterval())

				var firstErr error
				for i := 0; i < running; i++ {
					if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
						if firstErr == nil {
							firstErr = err
						}
						stop()
					}
				}
				return firstErr
			})
		},
	}

	cmd.Flags().BoolVar(&noInbox, "no-inbox", false, "Disable the inbox file watcher")

	return cmd
}
