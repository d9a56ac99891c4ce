// Package core provides the finance domain types shared by every layer.
//
// This file contains money parsing helpers. Amounts travel through the
// system as integer cents; decimal strings are only accepted at the API
// boundary.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Signs are
// rejected: a transaction's direction is carried by its kind, never by the
// amount. Returns ErrInvalidAmount for malformed, negative, or zero input.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := d.Round(2).Shift(2)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	v := cents.IntPart()
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// String formats the amount as a plain decimal ("12.34") for API responses.
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

// Signed returns the amount with the sign implied by the transaction kind:
// negative for expenses, positive for income. Used by balance reductions.
func (m Money) Signed(kind TransactionKind) int64 {
	if kind == Expense {
		return -m.Cents
	}
	return m.Cents
}
