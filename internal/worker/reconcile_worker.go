// Package worker runs the background reconciliation loop.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caixa/internal/core"
	"caixa/internal/services"
)

// ScopeLister enumerates the scopes worth reconciling.
type ScopeLister interface {
	ListReconcilableScopes(ctx context.Context) ([]core.Scope, error)
}

// ReconcileWorker periodically reconciles every scope that has active
// templates. It covers clients that never call session-start: by the time
// a user returns mid-month, their recurring expenses already exist.
type ReconcileWorker struct {
	scopes     ScopeLister
	reconciler *services.Reconciler
	interval   time.Duration
}

func NewReconcileWorker(scopes ScopeLister, reconciler *services.Reconciler, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		scopes:     scopes,
		reconciler: reconciler,
		interval:   interval,
	}
}

// Run executes one pass immediately, then one per tick until the context
// is cancelled. It only returns the context's error: per-scope failures
// are logged inside the pass and retried next tick.
func (w *ReconcileWorker) Run(ctx context.Context) error {
	w.runPass(ctx, time.Now())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			w.runPass(ctx, now)
		}
	}
}

// runPass reconciles each scope once. The session states are fresh per
// pass; repeat protection across passes comes from the description dedup,
// not the guard.
func (w *ReconcileWorker) runPass(ctx context.Context, now time.Time) {
	scopes, err := w.scopes.ListReconcilableScopes(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list scopes for reconciliation", "error", err)
		return
	}
	if len(scopes) == 0 {
		return
	}

	states := services.NewSessionStates()
	created, failed := 0, 0
	for _, scope := range scopes {
		if ctx.Err() != nil {
			return
		}
		n, err := w.reconciler.Reconcile(ctx, scope, now, states.For(scope))
		if err != nil {
			failed++
			slog.ErrorContext(ctx, "Scope reconciliation failed",
				"scope", scope.Key(),
				"error", err)
			continue
		}
		created += n
	}

	slog.InfoContext(ctx, "Reconciliation pass complete",
		"scopes", len(scopes),
		"created", created,
		"failed", failed,
		"next_pass", now.Add(w.interval).Format("15:04:05"))
}

// String describes the worker for startup logging.
func (w *ReconcileWorker) String() string {
	return fmt.Sprintf("reconcile-worker(interval=%s)", w.interval)
}
