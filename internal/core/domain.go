package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

type (
	TransactionKind string

	// Scope is the (user, project-or-personal) pair that filters every read
	// and write. A nil ProjectID means the personal scope, never "all
	// projects".
	Scope struct {
		UserID    string
		ProjectID *string
	}

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Kind        TransactionKind
		Date        Date
		CategoryID  *string
		Paid        bool

		// TemplateID marks a generated copy created by the reconciler.
		TemplateID *string

		// SeriesID links installment rows created together; Number and
		// Total come as a pair, 1 <= Number <= Total.
		SeriesID          *string
		InstallmentNumber int
		InstallmentTotal  int
	}

	// RecurrenceTemplate is a user-configured fixed expense. The reconciler
	// reads templates; it never writes them.
	RecurrenceTemplate struct {
		ID          string
		Description string
		Amount      Money
		DueDay      int
		CategoryID  *string
		Active      bool
	}

	Project struct {
		ID        string
		Name      string
		Color     *string
		CreatedAt time.Time
	}

	Category struct {
		ID   string
		Name string
		Kind TransactionKind
	}

	// InvestmentGoal tracks progress toward a savings target. Contributions
	// are the transactions recorded under the linked category.
	InvestmentGoal struct {
		ID         string
		Name       string
		Target     Money
		CategoryID *string
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyUser          = errors.New("empty user id")
	ErrInvalidInstallment = errors.New("invalid installment pair")
	ErrNotFound           = errors.New("not found")
)

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (s Scope) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrEmptyUser
	}
	if s.ProjectID != nil && strings.TrimSpace(*s.ProjectID) == "" {
		return errors.New("project id cannot be blank")
	}
	return nil
}

// Personal reports whether the scope is the implicit project-less one.
func (s Scope) Personal() bool {
	return s.ProjectID == nil
}

// Key returns a stable string form used for cache keys and session guards.
func (s Scope) Key() string {
	if s.ProjectID == nil {
		return s.UserID + "/personal"
	}
	return s.UserID + "/" + *s.ProjectID
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	return t.validateInstallment()
}

// validateInstallment enforces that the series fields come as a consistent
// pair: a row either has no series linkage at all, or a series id plus
// 1 <= number <= total.
func (t Transaction) validateInstallment() error {
	if t.SeriesID == nil {
		if t.InstallmentNumber != 0 || t.InstallmentTotal != 0 {
			return ErrInvalidInstallment
		}
		return nil
	}
	if t.InstallmentNumber < 1 || t.InstallmentTotal < t.InstallmentNumber {
		return ErrInvalidInstallment
	}
	return nil
}

// Installment reports whether the row belongs to an installment series.
func (t Transaction) Installment() bool {
	return t.SeriesID != nil
}

func (rt RecurrenceTemplate) Validate() error {
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if rt.DueDay < 1 || rt.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

func (p Project) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return errors.New("empty project name")
	}
	if len(p.Name) > 100 {
		return errors.New("project name too long (max 100 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return errors.New("empty category name")
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (g InvestmentGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return errors.New("empty goal name")
	}
	return g.Target.Validate()
}
