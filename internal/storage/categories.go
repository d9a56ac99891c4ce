package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"caixa/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, scope core.Scope, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	args := append([]any{c.ID}, scopeArgs(scope)...)
	args = append(args, c.Name, string(c.Kind))
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, project_id, name, kind)
		VALUES (?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", c.ID, "scope", scope.Key(), "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, scope core.Scope) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind
		FROM categories
		WHERE `+scopeFilter+`
		ORDER BY name ASC
	`, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, scope core.Scope, id string) (*core.Category, error) {
	args := append([]any{id}, scopeArgs(scope)...)
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind
		FROM categories
		WHERE id = ? AND `+scopeFilter+`
	`, args...).Scan(&c.ID, &c.Name, &c.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// DeleteCategory removes the category; transactions keep their rows with
// category_id reset to NULL by the schema.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, scope core.Scope, id string) error {
	args := append([]any{id}, scopeArgs(scope)...)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Category deleted", "category_id", id, "scope", scope.Key())
	return nil
}
