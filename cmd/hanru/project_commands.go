package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hanru/internal/queue"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage translation projects",
	}

	projectCmd.AddCommand(newProjectNewCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectPromptCommand(ctx))

	return projectCmd
}

func newProjectNewCommand(ctx *commandContext) *cobra.Command {
	var promptFile string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("project name is required")
			}
			prompt := ""
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read system prompt: %w", err)
				}
				prompt = string(data)
			}
			return ctx.withStore(func(store *queue.Store) error {
				project, err := store.CreateProject(cmd.Context(), name, prompt)
				if err != nil {
					if errors.Is(err, queue.ErrProjectExists) {
						return fmt.Errorf("project %q already exists", name)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", project.Name, project.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "File containing the project system prompt")

	return cmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				projects, err := store.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, projects)
				}
				if len(projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}
				rows := make([][]string, 0, len(projects))
				for _, project := range projects {
					count, err := store.CountChapters(cmd.Context(), project.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						project.ID,
						project.Name,
						strconv.Itoa(count),
						project.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				table := renderTable(
					[]string{"ID", "Name", "Chapters", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show project details and chapter status counts",
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

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project:  %s\n", project.Name)
				fmt.Fprintf(out, "ID:       %s\n", project.ID)
				fmt.Fprintf(out, "Created:  %s\n", project.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintf(out, "Chapters: %d\n", len(chapters))
				if strings.TrimSpace(project.SystemPrompt) != "" {
					fmt.Fprintf(out, "Prompt:   %s\n", truncateText(strings.TrimSpace(project.SystemPrompt), 80))
				}

				counts := make(map[queue.Status]int)
				for _, chapter := range chapters {
					counts[chapter.Status]++
				}
				rows := make([][]string, 0, len(counts))
				for _, status := range queue.AllStatuses() {
					if counts[status] == 0 {
						continue
					}
					rows = append(rows, []string{statusLabel(status), strconv.Itoa(counts[status])})
				}
				if len(rows) > 0 {
					table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
					fmt.Fprintln(out, table)
				}
				return nil
			})
		},
	}
}

func newProjectPromptCommand(ctx *commandContext) *cobra.Command {
	var promptFile string

	cmd := &cobra.Command{
		Use:   "prompt <project>",
		Short: "Show or replace the project system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				project, err := resolveProjectArg(cmd, store, args[0])
				if err != nil {
					return err
				}
				if promptFile == "" {
					fmt.Fprintln(cmd.OutOrStdout(), project.SystemPrompt)
					return nil
				}
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read system prompt: %w", err)
				}
				if err := store.SetSystemPrompt(cmd.Context(), project.ID, string(data)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated system prompt for %q\n", project.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "File containing the new system prompt")

	return cmd
}

// resolveProjectArg resolves a project id or name, producing a friendly error
// when nothing matches.
func resolveProjectArg(cmd *cobra.Command, store *queue.Store, ref string) (*queue.Project, error) {
	project, err := store.ResolveProject(cmd.Context(), strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("no project matches %q", ref)
	}
	return project, nil
}
