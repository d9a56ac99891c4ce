package core

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestScopeValidateAndKey(t *testing.T) {
	personal := Scope{UserID: "u1"}
	if err := personal.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !personal.Personal() {
		t.Fatalf("nil project should be personal")
	}
	if got := personal.Key(); got != "u1/personal" {
		t.Fatalf("unexpected key %q", got)
	}

	scoped := Scope{UserID: "u1", ProjectID: strptr("p1")}
	if scoped.Personal() {
		t.Fatalf("project scope should not be personal")
	}
	if got := scoped.Key(); got != "u1/p1" {
		t.Fatalf("unexpected key %q", got)
	}

	if err := (Scope{}).Validate(); err == nil {
		t.Fatalf("expected error for empty user")
	}
	if err := (Scope{UserID: "u1", ProjectID: strptr(" ")}).Validate(); err == nil {
		t.Fatalf("expected error for blank project id")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Kind:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Kind: Expense}, // zero date
		{Date: NewDate(2025, 1, 1), Description: "", Amount: Money{Cents: 1}, Kind: Expense},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Kind: Expense},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Kind: "transfer"},
	}
	for i, tr := range bads {
		if err := tr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionInstallmentPair(t *testing.T) {
	base := Transaction{
		Date:        NewDate(2025, 1, 15),
		Description: "tv",
		Amount:      Money{Cents: 5000},
		Kind:        Expense,
	}

	linked := base
	linked.SeriesID = strptr("s1")
	linked.InstallmentNumber = 2
	linked.InstallmentTotal = 3
	if err := linked.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !linked.Installment() {
		t.Fatalf("expected series membership")
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"number without series", func(tr *Transaction) { tr.InstallmentNumber = 1; tr.InstallmentTotal = 3 }},
		{"zero number", func(tr *Transaction) { tr.SeriesID = strptr("s1"); tr.InstallmentTotal = 3 }},
		{"number above total", func(tr *Transaction) {
			tr.SeriesID = strptr("s1")
			tr.InstallmentNumber = 4
			tr.InstallmentTotal = 3
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := base
			tc.mutate(&tr)
			if err := tr.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRecurrenceTemplateValidate(t *testing.T) {
	good := RecurrenceTemplate{Description: "rent", Amount: Money{Cents: 90000}, DueDay: 5, Active: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurrenceTemplate{
		{Description: "", Amount: Money{Cents: 1}, DueDay: 1},
		{Description: "a", Amount: Money{Cents: 0}, DueDay: 1},
		{Description: "a", Amount: Money{Cents: 1}, DueDay: 0},
		{Description: "a", Amount: Money{Cents: 1}, DueDay: 32},
	}
	for i, rt := range bads {
		if err := rt.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
