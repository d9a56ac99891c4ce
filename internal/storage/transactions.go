package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"caixa/internal/core"
)

const dateLayout = "2006-01-02"

const transactionColumns = `id, description, amount_cents, kind, date, category_id, paid,
	       template_id, series_id, installment_number, installment_total`

// InsertTransaction saves a single transaction in the given scope and
// returns it with its assigned id.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, scope core.Scope, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	args := append([]any{t.ID}, scopeArgs(scope)...)
	args = append(args,
		t.Description,
		t.Amount.Cents,
		string(t.Kind),
		t.Date.Format(dateLayout),
		t.CategoryID,
		t.Paid,
		t.TemplateID,
		t.SeriesID,
		nullableInt(t.InstallmentNumber),
		nullableInt(t.InstallmentTotal),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, project_id, description, amount_cents, kind, date,
			category_id, paid, template_id, series_id, installment_number, installment_total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"scope", scope.Key(),
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"kind", t.Kind)

	return t, nil
}

// InsertTransactions saves a batch of transactions in one SQL transaction.
// Either every row lands or none does; the reconciler relies on this to
// keep its single-batch semantics.
func (r *SQLiteRepository) InsertTransactions(ctx context.Context, scope core.Scope, txns []core.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, user_id, project_id, description, amount_cents, kind, date,
			category_id, paid, template_id, series_id, installment_number, installment_total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txns {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		args := append([]any{t.ID}, scopeArgs(scope)...)
		args = append(args,
			t.Description,
			t.Amount.Cents,
			string(t.Kind),
			t.Date.Format(dateLayout),
			t.CategoryID,
			t.Paid,
			t.TemplateID,
			t.SeriesID,
			nullableInt(t.InstallmentNumber),
			nullableInt(t.InstallmentTotal),
		)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert transaction %q: %w", t.Description, err)
		}
	}

	return tx.Commit()
}

// GetTransaction fetches one transaction by id within the scope.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, scope core.Scope, id string) (*core.Transaction, error) {
	args := append([]any{id}, scopeArgs(scope)...)
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND `+scopeFilter+`
	`, args...)

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsBetween returns the scope's transactions with dates in
// the inclusive [from, to] window, oldest first.
func (r *SQLiteRepository) ListTransactionsBetween(ctx context.Context, scope core.Scope, from, to core.Date) ([]core.Transaction, error) {
	args := append(scopeArgs(scope), from.Format(dateLayout), to.Format(dateLayout))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE `+scopeFilter+` AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// DeleteTransaction removes exactly one row by identity.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, scope core.Scope, id string) error {
	args := append([]any{id}, scopeArgs(scope)...)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND `+scopeFilter+`
	`, args...)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "scope", scope.Key())
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*core.Transaction, error) {
	var (
		t          core.Transaction
		kind       string
		date       string
		number     sql.NullInt64
		total      sql.NullInt64
	)
	err := s.Scan(
		&t.ID,
		&t.Description,
		&t.Amount.Cents,
		&kind,
		&date,
		&t.CategoryID,
		&t.Paid,
		&t.TemplateID,
		&t.SeriesID,
		&number,
		&total,
	)
	if err != nil {
		return nil, err
	}

	t.Kind = core.TransactionKind(kind)
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = core.Date{Time: parsed}
	if number.Valid {
		t.InstallmentNumber = int(number.Int64)
	}
	if total.Valid {
		t.InstallmentTotal = int(total.Int64)
	}
	return &t, nil
}

// nullableInt maps the zero value to NULL so unlinked rows keep NULL
// installment columns.
func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
