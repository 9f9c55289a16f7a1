package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hanru/internal/hanzi"
	"hanru/internal/queue"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		selection string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "scan <project>",
		Short: "Scan translated chapters for untranslated hieroglyph residue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}

				chapters, err := store.ChaptersByProject(cmd.Context(), project.ID)
				if err != nil {
					return err
				}
				if selection != "" {
					seqs, err := parseSeqSelection(selection)
					if err != nil {
						return err
					}
					chapters, err = filterChaptersBySeq(chapters, seqs)
					if err != nil {
						return err
					}
				}

				seqByID := make(map[string]int, len(chapters))
				titleByID := make(map[string]string, len(chapters))
				texts := make([]hanzi.ChapterText, 0, len(chapters))
				for _, chapter := range chapters {
					if !chapter.IsTranslated() {
						continue
					}
					seqByID[chapter.ID] = chapter.Seq
					titleByID[chapter.ID] = chapter.Title
					texts = append(texts, hanzi.ChapterText{ID: chapter.ID, Text: chapter.TranslatedText})
				}
				if len(texts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No translated chapters to scan")
					return nil
				}

				report := hanzi.ScanChapters(texts)
				if asJSON {
					return writeJSON(cmd, report)
				}
				if len(report.Affected) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d chapter(s), no residue found\n", len(texts))
					return nil
				}

				rows := make([][]string, 0)
				for _, chapterFindings := range report.Chapters {
					for _, finding := range chapterFindings.Findings {
						rows = append(rows, []string{
							strconv.Itoa(seqByID[chapterFindings.ChapterID]),
							titleByID[chapterFindings.ChapterID],
							string(finding.Char),
							strconv.Itoa(finding.Position),
							finding.Context,
						})
					}
				}
				table := renderTable(
					[]string{"#", "Title", "Char", "Position", "Context"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d chapter(s) contain residue\n", len(report.Affected), len(texts))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&selection, "chapters", "", "Chapter selection, e.g. \"3\" or \"1-10,15\" (default: all translated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
