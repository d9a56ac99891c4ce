package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"caixa/internal/core"
)

// CreateTemplate saves a recurrence template in the given scope.
func (r *SQLiteRepository) CreateTemplate(ctx context.Context, scope core.Scope, t core.RecurrenceTemplate) (core.RecurrenceTemplate, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	args := append([]any{t.ID}, scopeArgs(scope)...)
	args = append(args, t.Description, t.Amount.Cents, t.DueDay, t.CategoryID, t.Active)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurrence_templates (
			id, user_id, project_id, description, amount_cents, due_day, category_id, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return core.RecurrenceTemplate{}, fmt.Errorf("create template: %w", err)
	}

	slog.InfoContext(ctx, "Recurrence template saved",
		"template_id", t.ID,
		"scope", scope.Key(),
		"description", t.Description,
		"due_day", t.DueDay)

	return t, nil
}

// UpdateTemplate replaces the mutable fields of an existing template.
func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, scope core.Scope, t core.RecurrenceTemplate) error {
	args := []any{t.Description, t.Amount.Cents, t.DueDay, t.CategoryID, t.Active, t.ID}
	args = append(args, scopeArgs(scope)...)

	res, err := r.db.ExecContext(ctx, `
		UPDATE recurrence_templates
		SET description = ?, amount_cents = ?, due_day = ?, category_id = ?, active = ?
		WHERE id = ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetTemplate fetches one template by id within the scope.
func (r *SQLiteRepository) GetTemplate(ctx context.Context, scope core.Scope, id string) (*core.RecurrenceTemplate, error) {
	args := append([]any{id}, scopeArgs(scope)...)
	var t core.RecurrenceTemplate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, due_day, category_id, active
		FROM recurrence_templates
		WHERE id = ? AND `+scopeFilter+`
	`, args...).Scan(&t.ID, &t.Description, &t.Amount.Cents, &t.DueDay, &t.CategoryID, &t.Active)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

// ListActiveTemplates returns the scope's active templates. The reconciler
// reads exactly this set at the start of every pass.
func (r *SQLiteRepository) ListActiveTemplates(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, due_day, category_id, active
		FROM recurrence_templates
		WHERE `+scopeFilter+` AND active = 1
		ORDER BY due_day ASC, description ASC
	`, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []core.RecurrenceTemplate
	for rows.Next() {
		var t core.RecurrenceTemplate
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &t.DueDay, &t.CategoryID, &t.Active); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ListReconcilableScopes returns every distinct scope that has at least
// one active template. The background worker walks this set each pass.
func (r *SQLiteRepository) ListReconcilableScopes(ctx context.Context) ([]core.Scope, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT user_id, project_id
		FROM recurrence_templates
		WHERE active = 1
		ORDER BY user_id, project_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list reconcilable scopes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scopes []core.Scope
	for rows.Next() {
		var s core.Scope
		if err := rows.Scan(&s.UserID, &s.ProjectID); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}
	return scopes, rows.Err()
}

// ListTemplates returns every template in the scope, inactive included.
func (r *SQLiteRepository) ListTemplates(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, due_day, category_id, active
		FROM recurrence_templates
		WHERE `+scopeFilter+`
		ORDER BY due_day ASC, description ASC
	`, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []core.RecurrenceTemplate
	for rows.Next() {
		var t core.RecurrenceTemplate
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &t.DueDay, &t.CategoryID, &t.Active); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template. Generated transactions keep their
// history; their template_id is nulled by the foreign key.
func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, scope core.Scope, id string) error {
	args := append([]any{id}, scopeArgs(scope)...)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM recurrence_templates WHERE id = ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}
