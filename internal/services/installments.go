package services

import (
	"context"
	"fmt"
	"strings"

	"caixa/internal/cache"
	"caixa/internal/core"
	"caixa/internal/storage"
)

// SeriesInput is the validated request for a new installment series.
type SeriesInput struct {
	Description string
	Amount      string // decimal string, parsed here
	Kind        core.TransactionKind
	Start       core.Date
	CategoryID  *string
	Paid        bool
	Total       int
}

// InstallmentStorage is the slice of the repository the installment
// service needs.
type InstallmentStorage interface {
	CreateInstallmentSeries(ctx context.Context, scope core.Scope, p storage.SeriesParams) ([]core.Transaction, error)
	DeleteFutureInstallments(ctx context.Context, scope core.Scope, seriesID string, fromNumber int) (int, error)
	GetTransaction(ctx context.Context, scope core.Scope, id string) (*core.Transaction, error)
	ListSeries(ctx context.Context, scope core.Scope, seriesID string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, scope core.Scope, id string) error
}

// InstallmentService creates and deletes linked installment series.
type InstallmentService struct {
	storage     InstallmentStorage
	invalidator *Invalidator
}

func NewInstallmentService(storage InstallmentStorage, invalidator *Invalidator) *InstallmentService {
	return &InstallmentService{storage: storage, invalidator: invalidator}
}

// CreateSeries validates the input, delegates row generation to storage and
// invalidates the scope's caches. Validation and storage errors propagate
// unchanged to the caller.
func (s *InstallmentService) CreateSeries(ctx context.Context, scope core.Scope, in SeriesInput) ([]core.Transaction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, core.ErrEmptyDescription
	}
	if !in.Kind.Valid() {
		return nil, core.ErrInvalidKind
	}
	if in.Total < 1 {
		return nil, core.ErrInvalidInstallment
	}
	if err := in.Start.Validate(); err != nil {
		return nil, err
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return nil, err
	}

	rows, err := s.storage.CreateInstallmentSeries(ctx, scope, storage.SeriesParams{
		Description: in.Description,
		Amount:      core.Money{Cents: cents},
		Kind:        in.Kind,
		Start:       in.Start,
		CategoryID:  in.CategoryID,
		Paid:        in.Paid,
		Total:       in.Total,
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, scope, cache.RegionTransactions, cache.RegionAnalytics, cache.RegionInvestment)
	return rows, nil
}

// DeleteSingle removes exactly one transaction, series member or not.
func (s *InstallmentService) DeleteSingle(ctx context.Context, scope core.Scope, id string) error {
	if err := s.storage.DeleteTransaction(ctx, scope, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, scope, cache.RegionTransactions, cache.RegionAnalytics, cache.RegionInvestment)
	return nil
}

// DeleteFuture removes the identified transaction and every later
// installment of its series. The transaction must belong to a series.
func (s *InstallmentService) DeleteFuture(ctx context.Context, scope core.Scope, id string) (int, error) {
	t, err := s.storage.GetTransaction(ctx, scope, id)
	if err != nil {
		return 0, err
	}
	if !t.Installment() {
		return 0, fmt.Errorf("transaction %s: %w", id, core.ErrInvalidInstallment)
	}

	deleted, err := s.storage.DeleteFutureInstallments(ctx, scope, *t.SeriesID, t.InstallmentNumber)
	if err != nil {
		return 0, err
	}

	s.invalidator.Invalidate(ctx, scope, cache.RegionTransactions, cache.RegionAnalytics, cache.RegionInvestment)
	return deleted, nil
}

// Series returns the full series a transaction belongs to, or just the
// transaction itself when it is not an installment. The API uses this to
// decide whether to offer the delete-future mode.
func (s *InstallmentService) Series(ctx context.Context, scope core.Scope, id string) ([]core.Transaction, error) {
	t, err := s.storage.GetTransaction(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !t.Installment() {
		return []core.Transaction{*t}, nil
	}
	return s.storage.ListSeries(ctx, scope, *t.SeriesID)
}
