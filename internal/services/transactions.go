package services

import (
	"context"
	"strings"

	"caixa/internal/cache"
	"caixa/internal/core"
)

// TransactionInput is the validated request for a single transaction.
type TransactionInput struct {
	Description string
	Amount      string // decimal string, parsed here
	Kind        core.TransactionKind
	Date        core.Date
	CategoryID  *string
	Paid        bool
}

// TransactionStorage is the slice of the repository the transaction
// service needs.
type TransactionStorage interface {
	InsertTransaction(ctx context.Context, scope core.Scope, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, scope core.Scope, id string) (*core.Transaction, error)
	ListTransactionsBetween(ctx context.Context, scope core.Scope, from, to core.Date) ([]core.Transaction, error)
}

// TransactionService records and reads plain (non-series) transactions.
type TransactionService struct {
	storage     TransactionStorage
	invalidator *Invalidator
}

func NewTransactionService(storage TransactionStorage, invalidator *Invalidator) *TransactionService {
	return &TransactionService{storage: storage, invalidator: invalidator}
}

// Create validates the input and saves the transaction.
func (s *TransactionService) Create(ctx context.Context, scope core.Scope, in TransactionInput) (core.Transaction, error) {
	if err := scope.Validate(); err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		Description: strings.TrimSpace(in.Description),
		Amount:      core.Money{Cents: cents},
		Kind:        in.Kind,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		Paid:        in.Paid,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.storage.InsertTransaction(ctx, scope, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.invalidator.Invalidate(ctx, scope, cache.RegionTransactions, cache.RegionAnalytics, cache.RegionInvestment)
	return saved, nil
}

// Get fetches a single transaction by id.
func (s *TransactionService) Get(ctx context.Context, scope core.Scope, id string) (*core.Transaction, error) {
	return s.storage.GetTransaction(ctx, scope, id)
}

// ListMonth returns the scope's transactions for one calendar month.
func (s *TransactionService) ListMonth(ctx context.Context, scope core.Scope, year, month int) ([]core.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	first := core.NewDate(year, month, 1)
	last := core.NewDate(year, month, core.DaysInMonth(year, first.Time.Month()))
	return s.storage.ListTransactionsBetween(ctx, scope, first, last)
}
