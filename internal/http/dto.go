package http

import (
	"caixa/internal/core"
)

// Wire representations. Amounts go out both as cents and as a formatted
// decimal string; they come in as decimal strings only.

type transactionJSON struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	Amount            string  `json:"amount"`
	AmountCents       int64   `json:"amount_cents"`
	Kind              string  `json:"kind"`
	Date              string  `json:"date"`
	CategoryID        *string `json:"category_id,omitempty"`
	Paid              bool    `json:"paid"`
	TemplateID        *string `json:"template_id,omitempty"`
	SeriesID          *string `json:"series_id,omitempty"`
	InstallmentNumber int     `json:"installment_number,omitempty"`
	InstallmentTotal  int     `json:"installment_total,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:                t.ID,
		Description:       t.Description,
		Amount:            t.Amount.String(),
		AmountCents:       t.Amount.Cents,
		Kind:              string(t.Kind),
		Date:              t.Date.Format("2006-01-02"),
		CategoryID:        t.CategoryID,
		Paid:              t.Paid,
		TemplateID:        t.TemplateID,
		SeriesID:          t.SeriesID,
		InstallmentNumber: t.InstallmentNumber,
		InstallmentTotal:  t.InstallmentTotal,
	}
}

func toTransactionListJSON(txns []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txns))
	for i, t := range txns {
		out[i] = toTransactionJSON(t)
	}
	return out
}

type templateJSON struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	DueDay      int     `json:"due_day"`
	CategoryID  *string `json:"category_id,omitempty"`
	Active      bool    `json:"active"`
}

func toTemplateJSON(t core.RecurrenceTemplate) templateJSON {
	return templateJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		DueDay:      t.DueDay,
		CategoryID:  t.CategoryID,
		Active:      t.Active,
	}
}

type projectJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     *string `json:"color,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func toProjectJSON(p core.Project) projectJSON {
	return projectJSON{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type goalJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Target      string  `json:"target"`
	TargetCents int64   `json:"target_cents"`
	CategoryID  *string `json:"category_id,omitempty"`
}

func toGoalJSON(g core.InvestmentGoal) goalJSON {
	return goalJSON{
		ID:          g.ID,
		Name:        g.Name,
		Target:      g.Target.String(),
		TargetCents: g.Target.Cents,
		CategoryID:  g.CategoryID,
	}
}

type summaryJSON struct {
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	Income       string               `json:"income"`
	Expense      string               `json:"expense"`
	BalanceCents int64                `json:"balance_cents"`
	ByCategory   []categoryAmountJSON `json:"by_category"`
}

type categoryAmountJSON struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

func toSummaryJSON(o *core.MonthOverview) summaryJSON {
	out := summaryJSON{
		Year:         o.Year,
		Month:        o.Month,
		Income:       o.Income.String(),
		Expense:      o.Expense.String(),
		BalanceCents: o.Balance,
		ByCategory:   make([]categoryAmountJSON, len(o.ByCategory)),
	}
	for i, c := range o.ByCategory {
		out.ByCategory[i] = categoryAmountJSON{
			Name:        c.Name,
			Amount:      c.Amount.String(),
			AmountCents: c.Amount.Cents,
		}
	}
	return out
}

type balancePointJSON struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	RunningCents int64  `json:"running_cents"`
}

type goalProgressJSON struct {
	Goal        goalJSON `json:"goal"`
	Contributed string   `json:"contributed"`
	Percent     int      `json:"percent"`
}
