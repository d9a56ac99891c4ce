package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"caixa/internal/core"
)

// Projects belong to a user, not a scope: the project id itself is the
// second half of the scope pair.

func (r *SQLiteRepository) CreateProject(ctx context.Context, userID string, p core.Project) (core.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, userID, p.Name, p.Color, p.CreatedAt)
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}

	slog.InfoContext(ctx, "Project created", "project_id", p.ID, "user_id", userID, "name", p.Name)
	return p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context, userID string) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, created_at
		FROM projects
		WHERE user_id = ?
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []core.Project
	for rows.Next() {
		var p core.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) GetProject(ctx context.Context, userID, id string) (*core.Project, error) {
	var p core.Project
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, created_at
		FROM projects
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// DeleteProject removes the project and, through ON DELETE CASCADE, every
// row recorded under it.
func (r *SQLiteRepository) DeleteProject(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Project deleted", "project_id", id, "user_id", userID)
	return nil
}
