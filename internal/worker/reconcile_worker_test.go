package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core"
	"caixa/internal/services"
	"caixa/internal/storage"
)

func TestWorkerPassReconcilesAllScopes(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	templates := services.NewTemplateService(repo)

	alice := core.Scope{UserID: "alice"}
	bob := core.Scope{UserID: "bob"}
	_, err = templates.Create(ctx, alice, services.TemplateInput{
		Description: "rent", Amount: "900.00", DueDay: 1, Active: true,
	})
	require.NoError(t, err)
	_, err = templates.Create(ctx, bob, services.TemplateInput{
		Description: "gym", Amount: "40.00", DueDay: 5, Active: true,
	})
	require.NoError(t, err)

	w := NewReconcileWorker(repo, services.NewReconciler(repo, nil), time.Hour)
	now := time.Date(2025, 6, 20, 3, 0, 0, 0, time.UTC)
	w.runPass(ctx, now)

	txSvc := services.NewTransactionService(repo, nil)
	for _, scope := range []core.Scope{alice, bob} {
		month, err := txSvc.ListMonth(ctx, scope, 2025, 6)
		require.NoError(t, err)
		require.Len(t, month, 1, "scope %s", scope.Key())
	}

	// a second pass finds everything materialized
	w.runPass(ctx, now)
	month, err := txSvc.ListMonth(ctx, alice, 2025, 6)
	require.NoError(t, err)
	assert.Len(t, month, 1)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	w := NewReconcileWorker(repo, services.NewReconciler(repo, nil), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
