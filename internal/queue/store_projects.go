package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrProjectExists indicates a project with the requested name already exists.
var ErrProjectExists = errors.New("project already exists")

const projectColumns = "id, name, system_prompt, created_at"

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, name, systemPrompt string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("project name is empty")
	}

	project := &Project{
		ID:           uuid.NewString(),
		Name:         name,
		SystemPrompt: systemPrompt,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (id, name, system_prompt, created_at) VALUES (?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.SystemPrompt,
		timestamp(project.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", ErrProjectExists, name)
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// GetProject fetches a project by id.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// FindProjectByName fetches a project by its unique name.
func (s *Store) FindProjectByName(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, strings.TrimSpace(name))
	return scanProject(row)
}

// ResolveProject accepts either a project id or a project name.
func (s *Store) ResolveProject(ctx context.Context, ref string) (*Project, error) {
	project, err := s.GetProject(ctx, ref)
	if err != nil {
		return nil, err
	}
	if project != nil {
		return project, nil
	}
	return s.FindProjectByName(ctx, ref)
}

// ListProjects returns all projects ordered by creation time.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// SetSystemPrompt updates the project-wide translation system prompt.
func (s *Store) SetSystemPrompt(ctx context.Context, projectID, prompt string) error {
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET system_prompt = ? WHERE id = ?`,
		prompt,
		projectID,
	); err != nil {
		return fmt.Errorf("update system prompt: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		project   Project
		createdAt string
	)
	err := row.Scan(&project.ID, &project.Name, &project.SystemPrompt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	project.CreatedAt = parseTimestamp(createdAt)
	return &project, nil
}
