package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"caixa/internal/core"
)

// Identity headers. Authentication lives in front of this service; by the
// time a request arrives, X-User-ID is a verified identity and
// X-Project-ID selects the project scope. Absent project header means the
// personal scope.
const (
	headerUserID    = "X-User-ID"
	headerProjectID = "X-Project-ID"
)

func scopeFrom(r *http.Request) (core.Scope, error) {
	scope := core.Scope{UserID: strings.TrimSpace(r.Header.Get(headerUserID))}
	if p := strings.TrimSpace(r.Header.Get(headerProjectID)); p != "" {
		scope.ProjectID = &p
	}
	if err := scope.Validate(); err != nil {
		return core.Scope{}, err
	}
	return scope, nil
}

// parseYearMonth reads year and month query parameters, defaulting to the
// current month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	return year, month
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsed}, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
