package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/cache"
	"caixa/internal/config"
	"caixa/internal/services"
	"caixa/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	registry := cache.NewRegistry()
	invalidator := services.NewInvalidator(registry, nil)

	cfg := &config.Config{
		Port:               "0",
		RateLimitPerMinute: 10000,
		CacheTTL:           time.Minute,
		CacheMaxSize:       100,
	}
	srv := NewServer(cfg, Services{
		Transactions: services.NewTransactionService(repo, invalidator),
		Installments: services.NewInstallmentService(repo, invalidator),
		Templates:    services.NewTemplateService(repo),
		Workspace:    services.NewWorkspaceService(repo, invalidator),
		Analytics:    services.NewAnalyticsService(repo, registry, cfg.CacheMaxSize, cfg.CacheTTL),
		Reconciler:   services.NewReconciler(repo, invalidator),
	})
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, user string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, _ = doJSON(t, ts, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateTransactionRequiresUser(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/transactions", "", map[string]any{
		"description": "coffee", "amount": "3.50", "kind": "expense", "date": "2025-06-01",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/transactions", "alice", map[string]any{
		"description": "groceries", "amount": "45,50", "kind": "expense", "date": "2025-06-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created transactionJSON
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(4550), created.AmountCents)
	assert.Equal(t, "45.50", created.Amount)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions?year=2025&month=6", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []transactionJSON
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)

	// another user sees nothing
	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions?year=2025&month=6", "bob", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed = nil
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed)

	resp, _ = doJSON(t, ts, http.MethodDelete, "/api/transactions/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/transactions/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTransactionValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad amount", map[string]any{"description": "x", "amount": "abc", "kind": "expense", "date": "2025-06-01"}, http.StatusUnprocessableEntity},
		{"negative amount", map[string]any{"description": "x", "amount": "-5", "kind": "expense", "date": "2025-06-01"}, http.StatusUnprocessableEntity},
		{"bad kind", map[string]any{"description": "x", "amount": "5.00", "kind": "transfer", "date": "2025-06-01"}, http.StatusUnprocessableEntity},
		{"bad date", map[string]any{"description": "x", "amount": "5.00", "kind": "expense", "date": "junk"}, http.StatusUnprocessableEntity},
		{"empty description", map[string]any{"description": " ", "amount": "5.00", "kind": "expense", "date": "2025-06-01"}, http.StatusUnprocessableEntity},
		{"unknown field", map[string]any{"description": "x", "amount": "5.00", "kind": "expense", "date": "2025-06-01", "bogus": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, ts, http.MethodPost, "/api/transactions", "alice", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestInstallmentFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/installments", "alice", map[string]any{
		"description": "sofa", "amount": "120.00", "kind": "expense",
		"start_date": "2025-01-31", "total": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var rows []transactionJSON
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-02-28", rows[1].Date)
	assert.Equal(t, 2, rows[1].InstallmentNumber)

	// membership probe from the middle of the series
	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions/"+rows[1].ID+"/series", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var series []transactionJSON
	require.NoError(t, json.Unmarshal(body, &series))
	assert.Len(t, series, 3)

	// delete this row and everything after it
	resp, body = doJSON(t, ts, http.MethodDelete, "/api/transactions/"+rows[1].ID+"?mode=future", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]int
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result["deleted"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions/"+rows[0].ID+"/series", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	series = nil
	require.NoError(t, json.Unmarshal(body, &series))
	assert.Len(t, series, 1)
}

func TestSessionStartReconciles(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/templates", "alice", map[string]any{
		"description": "rent", "amount": "900.00", "due_day": 31, "active": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = doJSON(t, ts, http.MethodPost, "/api/session/start", "alice", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var result struct {
		Reconciled bool `json:"reconciled"`
		Created    int  `json:"created"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Reconciled)
	assert.Equal(t, 1, result.Created)

	// second start in the same process session is guarded
	resp, body = doJSON(t, ts, http.MethodPost, "/api/session/start", "alice", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Zero(t, result.Created)

	now := time.Now()
	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []transactionJSON
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "rent", listed[0].Description)
	assert.NotNil(t, listed[0].TemplateID)

	wantDay := 31
	if last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(); last < 31 {
		wantDay = last
	}
	wantDate := time.Date(now.Year(), now.Month(), wantDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	assert.Equal(t, wantDate, listed[0].Date)
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)

	for _, req := range []map[string]any{
		{"description": "salary", "amount": "3000.00", "kind": "income", "date": "2025-06-01"},
		{"description": "rent", "amount": "900.00", "kind": "expense", "date": "2025-06-02"},
	} {
		resp, body := doJSON(t, ts, http.MethodPost, "/api/transactions", "alice", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := doJSON(t, ts, http.MethodGet, "/api/summary?year=2025&month=6", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary summaryJSON
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, "3000.00", summary.Income)
	assert.Equal(t, "900.00", summary.Expense)
	assert.Equal(t, int64(210000), summary.BalanceCents)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/balance-history", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []balancePointJSON
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Equal(t, int64(210000), history[0].RunningCents)
}

func TestProjectScopedRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/projects", "alice", map[string]any{"name": "side business"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var project projectJSON
	require.NoError(t, json.Unmarshal(body, &project))

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/transactions", bytes.NewReader([]byte(
		`{"description":"hosting","amount":"12.00","kind":"expense","date":"2025-06-03"}`,
	)))
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Project-ID", project.ID)
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// personal scope does not see the project row
	resp, body = doJSON(t, ts, http.MethodGet, "/api/transactions?year=2025&month=6", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []transactionJSON
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed)
}
