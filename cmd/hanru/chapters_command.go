package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hanru/internal/hanzi"
	"hanru/internal/queue"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var (
		statusFilter string
		asJSON       bool
		showText     bool
	)

	cmd := &cobra.Command{
		Use:   "chapters <project>",
		Short: "List a project's chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}

				var chapters []*queue.Chapter
				if statusFilter != "" {
					status, ok := queue.ParseStatus(statusFilter)
					if !ok {
						return fmt.Errorf("unknown status %q (expected one of %s)", statusFilter, strings.Join(statusNames(), ", "))
					}
					chapters, err = store.ChaptersByStatus(cmd.Context(), project.ID, status)
				} else {
					chapters, err = store.ChaptersByProject(cmd.Context(), project.ID)
				}
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, chapters)
				}
				if len(chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chapters")
					return nil
				}

				if showText {
					for _, chapter := range chapters {
						fmt.Fprintf(cmd.OutOrStdout(), "=== %d. %s [%s]\n", chapter.Seq, chapter.Title, statusLabel(chapter.Status))
						text := chapter.TranslatedText
						if text == "" {
							text = chapter.OriginalText
						}
						fmt.Fprintln(cmd.OutOrStdout(), text)
						fmt.Fprintln(cmd.OutOrStdout())
					}
					return nil
				}

				rows := make([][]string, 0, len(chapters))
				for _, chapter := range chapters {
					residue := ""
					if chapter.IsTranslated() && hanzi.Contains(chapter.TranslatedText) {
						residue = "yes"
					}
					rows = append(rows, []string{
						strconv.Itoa(chapter.Seq),
						chapter.Title,
						statusLabel(chapter.Status),
						residue,
						chapter.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				table := renderTable(
					[]string{"#", "Title", "Status", "Residue", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only list chapters with this status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showText, "text", false, "Print chapter text instead of the summary table")

	cmd.AddCommand(newChaptersRevertCommand(ctx))

	return cmd
}

func newChaptersRevertCommand(ctx *commandContext) *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "revert <project>",
		Short: "Return in-flight chapters to pending",
		Long:  "Return chapters stuck in the translating state to pending so they can be resubmitted, for example after the backend lost a batch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}

				chapters, err := store.ChaptersByStatus(cmd.Context(), project.ID, queue.StatusTranslating)
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
						if chapter.Status != queue.StatusTranslating {
							return fmt.Errorf("chapter %d is %s, only translating chapters can be reverted", chapter.Seq, chapter.Status)
						}
						chapters = append(chapters, chapter)
					}
				}
				if len(chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No in-flight chapters to revert")
					return nil
				}

				ids := make([]string, len(chapters))
				for i, chapter := range chapters {
					ids[i] = chapter.ID
				}
				if err := store.RevertTranslating(cmd.Context(), project.ID, ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reverted %d chapter(s) to pending\n", len(chapters))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&selection, "chapters", "", "Chapter selection, e.g. \"3\" or \"1-10,15\" (default: all in-flight)")

	return cmd
}

func statusNames() []string {
	statuses := queue.AllStatuses()
	names := make([]string, len(statuses))
	for i, status := range statuses {
		names[i] = string(status)
	}
	return names
}
