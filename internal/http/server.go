// Package http serves the JSON API.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"caixa/internal/config"
	"caixa/internal/log"
	"caixa/internal/middleware/ratelimit"
	"caixa/internal/middleware/security"
	"caixa/internal/middleware/trace"
	"caixa/internal/services"
)

// Server is the API server. Session state for the reconciliation guard
// lives here: one state per scope for the lifetime of the process.
type Server struct {
	http.Server

	transactions *services.TransactionService
	installments *services.InstallmentService
	templates    *services.TemplateService
	workspace    *services.WorkspaceService
	analytics    *services.AnalyticsService
	reconciler   *services.Reconciler
	sessions     *services.SessionStates

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Services bundles the dependencies the server exposes.
type Services struct {
	Transactions *services.TransactionService
	Installments *services.InstallmentService
	Templates    *services.TemplateService
	Workspace    *services.WorkspaceService
	Analytics    *services.AnalyticsService
	Reconciler   *services.Reconciler
}

// NewServer wires routes and middleware and returns a ready-to-run server.
func NewServer(cfg *config.Config, deps Services) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		transactions: deps.Transactions,
		installments: deps.Installments,
		templates:    deps.Templates,
		workspace:    deps.Workspace,
		analytics:    deps.Analytics,
		reconciler:   deps.Reconciler,
		sessions:     services.NewSessionStates(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/session/start", s.handleSessionStart)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/transactions/{id}/series", s.handleTransactionSeries)

	mux.HandleFunc("POST /api/installments", s.handleCreateInstallments)

	mux.HandleFunc("POST /api/templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("PUT /api/templates/{id}", s.handleUpdateTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", s.handleDeleteTemplate)

	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/balance-history", s.handleBalanceHistory)
	mux.HandleFunc("GET /api/investment", s.handleInvestment)

	ipExtractor := security.NewIPExtractor()
	logMW := log.Middleware(log.Default().WithComponent(log.ComponentHTTP))
	traceMW := trace.NewMiddleware(ipExtractor.ClientIP)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(func(r *http.Request) string {
		// rate limit per user where identified, per IP otherwise
		if user := strings.TrimSpace(r.Header.Get(headerUserID)); user != "" {
			return "user:" + user
		}
		return "ip:" + ipExtractor.ClientIP(r)
	})

	s.Server.Handler = logMW(traceMW.Middleware(headersMW.Middleware(limitMW(mux))))
	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
