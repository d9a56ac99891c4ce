package http

import (
	"net/http"
	"time"

	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/services"
)

type createTransactionRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Kind        string  `json:"kind"`
	Date        string  `json:"date"`
	CategoryID  *string `json:"category_id"`
	Paid        bool    `json:"paid"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
		return
	}

	saved, err := s.transactions.Create(r.Context(), scope, services.TransactionInput{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Kind:        core.TransactionKind(req.Kind),
		Date:        date,
		CategoryID:  req.CategoryID,
		Paid:        req.Paid,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(saved))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year, month := parseYearMonth(r)
	txns, err := s.transactions.ListMonth(r.Context(), scope, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(txns))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactions.Get(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(*t))
}

// handleDeleteTransaction removes one transaction, or with mode=future the
// transaction plus every later installment of its series.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")

	switch r.URL.Query().Get("mode") {
	case "", "single":
		if err := s.installments.DeleteSingle(r.Context(), scope, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": 1})
	case "future":
		deleted, err := s.installments.DeleteFuture(r.Context(), scope, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown mode, want single or future"})
	}
}

func (s *Server) handleTransactionSeries(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	series, err := s.installments.Series(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(series))
}

type createInstallmentsRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Kind        string  `json:"kind"`
	StartDate   string  `json:"start_date"`
	CategoryID  *string `json:"category_id"`
	Paid        bool    `json:"paid"`
	Total       int     `json:"total"`
}

func (s *Server) handleCreateInstallments(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createInstallmentsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid start_date, want YYYY-MM-DD"})
		return
	}

	rows, err := s.installments.CreateSeries(r.Context(), scope, services.SeriesInput{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Kind:        core.TransactionKind(req.Kind),
		Start:       start,
		CategoryID:  req.CategoryID,
		Paid:        req.Paid,
		Total:       req.Total,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionListJSON(rows))
}

// handleSessionStart triggers a best-effort reconciliation for the
// caller's scope. The answer is always 202: reconciliation failures are
// logged and retried on the next trigger, never surfaced to the client.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.reconciler.Reconcile(r.Context(), scope, time.Now(), s.sessions.For(scope))
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Session-start reconciliation failed",
			log.FieldScope, scope.Key(),
			log.FieldError, err)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"reconciled": err == nil,
		"created":    created,
	})
}
