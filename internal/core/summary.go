package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact dashboard summary for a specific year+month
// within one scope.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Income     Money
	Expense    Money
	Balance    int64 // income minus expense, in cents; may be negative
	ByCategory []CategoryAmount
}

// BalancePoint is one month of the running balance history.
type BalancePoint struct {
	Year    int
	Month   int
	Income  Money
	Expense Money
	// Running is the cumulative balance in cents up to and including this
	// month.
	Running int64
}

// GoalProgress pairs an investment goal with the contributions recorded so
// far in its scope.
type GoalProgress struct {
	Goal        InvestmentGoal
	Contributed Money
	// Percent is contributed/target * 100, capped at 100.
	Percent int
}

// BalanceHistory folds month totals into cumulative balance points. Months
// must arrive in chronological order; the fold carries the running balance
// across them.
func BalanceHistory(points []BalancePoint) []BalancePoint {
	var running int64
	out := make([]BalancePoint, len(points))
	for i, p := range points {
		running += p.Income.Cents - p.Expense.Cents
		p.Running = running
		out[i] = p
	}
	return out
}

// Progress computes the goal completion percentage, capped at 100.
func Progress(goal InvestmentGoal, contributed Money) GoalProgress {
	gp := GoalProgress{Goal: goal, Contributed: contributed}
	if goal.Target.Cents > 0 {
		pct := contributed.Cents * 100 / goal.Target.Cents
		if pct > 100 {
			pct = 100
		}
		gp.Percent = int(pct)
	}
	return gp
}
