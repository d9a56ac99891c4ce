package storage

import (
	"context"
	"fmt"

	"caixa/internal/core"
)

// MonthOverview aggregates one month's totals and per-category expense
// breakdown for a scope. Dedicated SUM queries keep the work in SQLite
// instead of loading every row.
func (r *SQLiteRepository) MonthOverview(ctx context.Context, scope core.Scope, year, month int) (*core.MonthOverview, error) {
	first := core.NewDate(year, month, 1)
	last := core.NewDate(year, month, core.DaysInMonth(year, first.Time.Month()))

	overview := &core.MonthOverview{Year: year, Month: month}

	args := append(scopeArgs(scope), first.Format(dateLayout), last.Format(dateLayout))
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE `+scopeFilter+` AND date BETWEEN ? AND ?
	`, args...).Scan(&overview.Income.Cents, &overview.Expense.Cents)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	overview.Balance = overview.Income.Cents - overview.Expense.Cents

	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(c.name, 'uncategorized'), SUM(t.amount_cents)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.`+scopeFilterPrefixed("t")+` AND t.kind = 'expense' AND t.date BETWEEN ? AND ?
		GROUP BY c.name
		ORDER BY SUM(t.amount_cents) DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category amount: %w", err)
		}
		overview.ByCategory = append(overview.ByCategory, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overview, nil
}

// MonthTotals returns per-month income and expense sums for the scope in
// chronological order, ready for the running-balance fold.
func (r *SQLiteRepository) MonthTotals(ctx context.Context, scope core.Scope) ([]core.BalancePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			CAST(strftime('%Y', date) AS INTEGER),
			CAST(strftime('%m', date) AS INTEGER),
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE `+scopeFilter+`
		GROUP BY strftime('%Y-%m', date)
		ORDER BY strftime('%Y-%m', date) ASC
	`, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []core.BalancePoint
	for rows.Next() {
		var p core.BalancePoint
		if err := rows.Scan(&p.Year, &p.Month, &p.Income.Cents, &p.Expense.Cents); err != nil {
			return nil, fmt.Errorf("scan balance point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// scopeFilterPrefixed qualifies the scope filter columns with a table alias
// for queries that join.
func scopeFilterPrefixed(alias string) string {
	return "user_id = ? AND " + alias + ".project_id IS ?"
}
