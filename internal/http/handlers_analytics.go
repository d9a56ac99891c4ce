package http

import (
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year, month := parseYearMonth(r)
	overview, err := s.analytics.Summary(r.Context(), scope, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(overview))
}

func (s *Server) handleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	history, err := s.analytics.BalanceHistory(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]balancePointJSON, len(history))
	for i, p := range history {
		out[i] = balancePointJSON{
			Year:         p.Year,
			Month:        p.Month,
			Income:       p.Income.String(),
			Expense:      p.Expense.String(),
			RunningCents: p.Running,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInvestment(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	progress, err := s.analytics.Investment(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]goalProgressJSON, len(progress))
	for i, p := range progress {
		out[i] = goalProgressJSON{
			Goal:        toGoalJSON(p.Goal),
			Contributed: p.Contributed.String(),
			Percent:     p.Percent,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
