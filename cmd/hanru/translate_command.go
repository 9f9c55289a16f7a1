package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hanru/internal/queue"
	"hanru/internal/scheduler"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var (
		selection    string
		providerFlag string
		targetFlag   string
		modelFlag    string
		batchSize    int
	)

	cmd := &cobra.Command{
		Use:   "translate <project>",
		Short: "Submit pending chapters for translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}

				chapters, err := store.ChaptersByStatus(cmd.Context(), project.ID, queue.StatusPending)
				if err != nil {
					return err
				}
				if selection != "" {
					seqs, err := parseSeqSelection(selection)
					if err != nil {
						return err
					}
					all, err := store.ChaptersByProject(cmd.Context(), project.ID)
					if err != nil {
						return err
					}
					selected, err := filterChaptersBySeq(all, seqs)
					if err != nil {
						return err
					}
					chapters = chapters[:0]
					for _, chapter := range selected {
						if chapter.Status != queue.StatusPending {
							return fmt.Errorf("chapter %d is %s, only pending chapters can be submitted", chapter.Seq, chapter.Status)
						}
						chapters = append(chapters, chapter)
					}
				}
				if len(chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending chapters to submit")
					return nil
				}

				settings, err := resolveSettings(cfg.Translation.Provider, cfg.Translation.TargetService, cfg.Translation.Model, cfg.Translation.BatchSize,
					providerFlag, targetFlag, modelFlag, batchSize)
				if err != nil {
					return err
				}

				terms, err := store.TermsByProject(cmd.Context(), project.ID)
				if err != nil {
					return err
				}

				sched, err := ctx.newScheduler(store)
				if err != nil {
					return err
				}

				observer := scheduler.Observer{
					OnBatchSent: func(sent, total int) {
						fmt.Fprintf(cmd.OutOrStdout(), "Sent batch %d/%d\n", sent, total)
					},
				}
				if err := sched.Submit(cmd.Context(), project.ID, chapters, terms, project.SystemPrompt, settings, observer); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted %d chapter(s) from %q\n", len(chapters), project.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&selection, "chapters", "", "Chapter selection, e.g. \"3\" or \"1-10,15\" (default: all pending)")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "Override the configured translation provider")
	cmd.Flags().StringVar(&targetFlag, "target", "", "Override the configured target service")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Override the configured model")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override the configured batch size")

	return cmd
}

func resolveSettings(cfgProvider, cfgTarget, cfgModel string, cfgBatch int, providerFlag, targetFlag, modelFlag string, batchFlag int) (scheduler.Settings, error) {
	providerName := cfgProvider
	if providerFlag != "" {
		providerName = providerFlag
	}
	provider, ok := scheduler.ParseProvider(providerName)
	if !ok {
		return scheduler.Settings{}, fmt.Errorf("unknown provider %q", providerName)
	}

	targetName := cfgTarget
	if targetFlag != "" {
		targetName = targetFlag
	}
	target, ok := scheduler.ParseTargetService(targetName)
	if !ok {
		return scheduler.Settings{}, fmt.Errorf("unknown target service %q", targetName)
	}

	model := cfgModel
	if modelFlag != "" {
		model = modelFlag
	}

	batch := cfgBatch
	if batchFlag > 0 {
		batch = batchFlag
	}

	return scheduler.Settings{
		Provider:      provider,
		TargetService: target,
		Model:         model,
		BatchSize:     batch,
	}, nil
}
