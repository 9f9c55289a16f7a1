package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hanru/internal/glossary"
	"hanru/internal/queue"
)

func newGlossaryCommand(ctx *commandContext) *cobra.Command {
	glossaryCmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage a project's translation glossary",
	}

	glossaryCmd.AddCommand(newGlossaryShowCommand(ctx))
	glossaryCmd.AddCommand(newGlossaryExportCommand(ctx))
	glossaryCmd.AddCommand(newGlossaryImportCommand(ctx))
	glossaryCmd.AddCommand(newGlossarySetCommand(ctx))

	return glossaryCmd
}

func newGlossaryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "List glossary terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				terms, err := store.TermsByProject(cmd.Context(), project.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, terms)
				}
				if len(terms) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Glossary is empty")
					return nil
				}
				rows := make([][]string, 0, len(terms))
				for _, term := range terms {
					rows = append(rows, []string{
						term.Original,
						term.English,
						term.Russian,
						term.AltRussian,
						string(term.Gender),
					})
				}
				table := renderTable(
					[]string{"Original", "English", "Russian", "Alternate", "Gender"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newGlossaryExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export the glossary as interchange JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				terms, err := store.TermsByProject(cmd.Context(), project.ID)
				if err != nil {
					return err
				}
				data, err := glossary.ToInterchange(terms)
				if err != nil {
					return err
				}
				if outPath == "" {
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d term(s) to %s\n", len(terms), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newGlossaryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <project> <file>",
		Short: "Merge terms from an interchange JSON file into the glossary",
		Long: "Merge terms from an interchange JSON file into the project glossary.\n" +
			"Existing entries win: an imported term whose original form is already\n" +
			"in the glossary is skipped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			incoming, err := glossary.FromInterchange(data)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				added, err := store.UpsertTerms(cmd.Context(), project.ID, incoming)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new term(s), %d already present\n", added, len(incoming)-added)
				return nil
			})
		},
	}
}

func newGlossarySetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <project> <original> <russian>",
		Short: "Replace the Russian rendering of an existing term",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			original := strings.TrimSpace(args[1])
			russian := strings.TrimSpace(args[2])
			if original == "" || russian == "" {
				return fmt.Errorf("original and russian forms are required")
			}
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				if err := store.ReplaceTermRussian(cmd.Context(), project.ID, original, russian); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", original)
				return nil
			})
		},
	}
}
