package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"caixa/internal/cache"
	"caixa/internal/core"
)

// SessionState is the once-per-session guard for reconciliation. Each
// (session, scope) pair owns one; the flag is explicit so callers and tests
// can inspect it instead of relying on hidden component lifetime.
type SessionState struct {
	mu      sync.Mutex
	ran     bool
	running bool
}

// Ran reports whether reconciliation completed for this state.
func (s *SessionState) Ran() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// begin claims the state. It returns false when a pass already completed
// or another goroutine is mid-pass.
func (s *SessionState) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ran || s.running {
		return false
	}
	s.running = true
	return true
}

// finish releases the claim; only a successful pass latches the flag, so a
// failed pass is retried on the next trigger.
func (s *SessionState) finish(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.ran = s.ran || ok
}

// SessionStates hands out one SessionState per scope key for the lifetime
// of the process (server) or of one pass (worker).
type SessionStates struct {
	mu     sync.Mutex
	states map[string]*SessionState
}

func NewSessionStates() *SessionStates {
	return &SessionStates{states: make(map[string]*SessionState)}
}

func (s *SessionStates) For(scope core.Scope) *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scope.Key()
	if st, ok := s.states[key]; ok {
		return st
	}
	st := &SessionState{}
	s.states[key] = st
	return st
}

// ReconcilerStorage is the slice of the repository the reconciler reads
// and writes.
type ReconcilerStorage interface {
	ListActiveTemplates(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error)
	ListTransactionsBetween(ctx context.Context, scope core.Scope, from, to core.Date) ([]core.Transaction, error)
	InsertTransactions(ctx context.Context, scope core.Scope, txns []core.Transaction) error
}

// Reconciler materializes the current month's missing recurring expenses
// from the scope's active templates. It never updates or deletes existing
// rows and never writes templates.
type Reconciler struct {
	storage     ReconcilerStorage
	invalidator *Invalidator
}

func NewReconciler(storage ReconcilerStorage, invalidator *Invalidator) *Reconciler {
	return &Reconciler{storage: storage, invalidator: invalidator}
}

// Reconcile runs one pass for the scope in the month containing now and
// returns how many transactions it created. The state guard makes repeat
// triggers within a session no-ops; a failed pass leaves the guard open so
// the next trigger retries.
//
// A transaction counts as already materialized when any transaction in the
// month carries the template's exact description. The check and the insert
// are not atomic across processes: two sessions reconciling the same scope
// at the same instant can both pass the check and produce duplicates. That
// window is accepted; the rows are user-deletable and the next pass sees
// the description as present.
func (r *Reconciler) Reconcile(ctx context.Context, scope core.Scope, now time.Time, state *SessionState) (int, error) {
	if state != nil {
		if !state.begin() {
			slog.DebugContext(ctx, "Reconciliation already ran this session", "scope", scope.Key())
			return 0, nil
		}
	}
	created, err := r.reconcile(ctx, scope, now)
	if state != nil {
		state.finish(err == nil)
	}
	return created, err
}

func (r *Reconciler) reconcile(ctx context.Context, scope core.Scope, now time.Time) (int, error) {
	templates, err := r.storage.ListActiveTemplates(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("list active templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	first, last := core.MonthWindow(now)
	existing, err := r.storage.ListTransactionsBetween(ctx, scope, first, last)
	if err != nil {
		return 0, fmt.Errorf("list month transactions: %w", err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[t.Description] = struct{}{}
	}

	year, month := first.Year(), first.Time.Month()
	var missing []core.Transaction
	for _, tpl := range templates {
		if _, ok := seen[tpl.Description]; ok {
			continue
		}
		tplID := tpl.ID
		missing = append(missing, core.Transaction{
			Description: tpl.Description,
			Amount:      tpl.Amount,
			Kind:        core.Expense,
			Date:        core.NewDate(year, int(month), core.ClampDay(year, month, tpl.DueDay)),
			CategoryID:  tpl.CategoryID,
			Paid:        false,
			TemplateID:  &tplID,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	// Single batch: either every missing expense lands or none does.
	if err := r.storage.InsertTransactions(ctx, scope, missing); err != nil {
		return 0, fmt.Errorf("insert reconciled transactions: %w", err)
	}

	r.invalidator.Invalidate(ctx, scope, cache.RegionTransactions, cache.RegionAnalytics, cache.RegionInvestment)

	slog.InfoContext(ctx, "Recurring expenses reconciled",
		"scope", scope.Key(),
		"created", len(missing),
		"month", first.Format("2006-01"))

	return len(missing), nil
}
