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

func (r *SQLiteRepository) CreateGoal(ctx context.Context, scope core.Scope, g core.InvestmentGoal) (core.InvestmentGoal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	args := append([]any{g.ID}, scopeArgs(scope)...)
	args = append(args, g.Name, g.Target.Cents, g.CategoryID)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investment_goals (id, user_id, project_id, name, target_cents, category_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return core.InvestmentGoal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Investment goal created", "goal_id", g.ID, "scope", scope.Key(), "name", g.Name)
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, scope core.Scope) ([]core.InvestmentGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_cents, category_id
		FROM investment_goals
		WHERE `+scopeFilter+`
		ORDER BY created_at ASC
	`, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []core.InvestmentGoal
	for rows.Next() {
		var g core.InvestmentGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.CategoryID); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, scope core.Scope, id string) (*core.InvestmentGoal, error) {
	args := append([]any{id}, scopeArgs(scope)...)
	var g core.InvestmentGoal
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_cents, category_id
		FROM investment_goals
		WHERE id = ? AND `+scopeFilter+`
	`, args...).Scan(&g.ID, &g.Name, &g.Target.Cents, &g.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &g, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, scope core.Scope, id string) error {
	args := append([]any{id}, scopeArgs(scope)...)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM investment_goals WHERE id = ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Investment goal deleted", "goal_id", id, "scope", scope.Key())
	return nil
}

// GoalContributed sums the income recorded under the goal's linked category.
// A goal with no category always reports zero.
func (r *SQLiteRepository) GoalContributed(ctx context.Context, scope core.Scope, g core.InvestmentGoal) (core.Money, error) {
	if g.CategoryID == nil {
		return core.Money{}, nil
	}

	args := append([]any{*g.CategoryID}, scopeArgs(scope)...)
	var cents sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(amount_cents)
		FROM transactions
		WHERE category_id = ? AND kind = 'income' AND `+scopeFilter+`
	`, args...).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("goal contributed: %w", err)
	}
	return core.Money{Cents: cents.Int64}, nil
}
