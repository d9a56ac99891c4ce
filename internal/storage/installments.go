package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"caixa/internal/core"
)

// SeriesParams carries the inputs for installment-series generation.
type SeriesParams struct {
	Description string
	Amount      core.Money // amount of each installment, not the series total
	Kind        core.TransactionKind
	Start       core.Date
	CategoryID  *string
	Paid        bool
	Total       int
}

// CreateInstallmentSeries generates Total linked transactions in one SQL
// transaction: a fresh series id, 1-based numbers, and dates advancing one
// calendar month per row from Start with the day clamped to each target
// month's last valid day (a purchase on the 31st bills on the 30th or
// 28th/29th in shorter months). Returns the rows in number order.
func (r *SQLiteRepository) CreateInstallmentSeries(ctx context.Context, scope core.Scope, p SeriesParams) ([]core.Transaction, error) {
	if p.Total < 1 {
		return nil, core.ErrInvalidInstallment
	}

	seriesID := uuid.NewString()
	rows := make([]core.Transaction, p.Total)
	for i := range rows {
		number := i + 1
		rows[i] = core.Transaction{
			ID:                uuid.NewString(),
			Description:       p.Description,
			Amount:            p.Amount,
			Kind:              p.Kind,
			Date:              core.AddMonthsClamped(p.Start, i),
			CategoryID:        p.CategoryID,
			Paid:              p.Paid && number == 1, // only the first row can start paid
			SeriesID:          &seriesID,
			InstallmentNumber: number,
			InstallmentTotal:  p.Total,
		}
	}

	if err := r.InsertTransactions(ctx, scope, rows); err != nil {
		return nil, fmt.Errorf("create installment series: %w", err)
	}

	slog.InfoContext(ctx, "Installment series created",
		"series_id", seriesID,
		"scope", scope.Key(),
		"description", p.Description,
		"total", p.Total,
		"start", p.Start.Format(dateLayout))

	return rows, nil
}

// DeleteFutureInstallments removes the row at fromNumber and every later
// row in the same series, returning how many rows were deleted.
func (r *SQLiteRepository) DeleteFutureInstallments(ctx context.Context, scope core.Scope, seriesID string, fromNumber int) (int, error) {
	if fromNumber < 1 {
		return 0, core.ErrInvalidInstallment
	}

	args := append([]any{seriesID, fromNumber}, scopeArgs(scope)...)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE series_id = ? AND installment_number >= ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete future installments: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return 0, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Future installments deleted",
		"series_id", seriesID,
		"from_number", fromNumber,
		"deleted", n,
		"scope", scope.Key())

	return int(n), nil
}

// ListSeries returns every row of one installment series in number order.
func (r *SQLiteRepository) ListSeries(ctx context.Context, scope core.Scope, seriesID string) ([]core.Transaction, error) {
	args := append([]any{seriesID}, scopeArgs(scope)...)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE series_id = ? AND `+scopeFilter+`
		ORDER BY installment_number ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}
