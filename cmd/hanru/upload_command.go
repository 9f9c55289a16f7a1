package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"hanru/internal/queue"
	"hanru/internal/segment"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "upload <project> <file>",
		Short: "Segment a raw text file into chapters and stage them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read upload: %w", err)
			}
			parsed := segment.Segment(string(data))
			if len(parsed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chapters found in input")
				return nil
			}

			if dryRun {
				rows := make([][]string, 0, len(parsed))
				for i, chapter := range parsed {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						chapter.Title,
						truncateText(chapter.Preview, 60),
					})
				}
				table := renderTable(
					[]string{"#", "Title", "Preview"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				fmt.Fprintf(cmd.OutOrStdout(), "%d chapter(s) would be staged\n", len(parsed))
				return nil
			}

			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				staged, err := store.StageChapters(cmd.Context(), project.ID, parsed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Staged %d chapter(s) into %q\n", len(staged), project.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the segmentation result without staging anything")

	return cmd
}

func newSegmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "segment <file>",
		Short:       "Preview how a raw text file splits into chapters",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			parsed := segment.Segment(string(data))
			if len(parsed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chapters found in input")
				return nil
			}
			rows := make([][]string, 0, len(parsed))
			for i, chapter := range parsed {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					chapter.Title,
					truncateText(chapter.Preview, 60),
				})
			}
			table := renderTable(
				[]string{"#", "Title", "Preview"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	return cmd
}
