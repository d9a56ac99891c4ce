package core

import "testing"

func TestBalanceHistory(t *testing.T) {
	points := []BalancePoint{
		{Year: 2024, Month: 1, Income: Money{Cents: 1000}, Expense: Money{Cents: 400}},
		{Year: 2024, Month: 2, Income: Money{Cents: 500}, Expense: Money{Cents: 900}},
		{Year: 2024, Month: 3, Income: Money{Cents: 0}, Expense: Money{Cents: 300}},
	}
	got := BalanceHistory(points)
	wants := []int64{600, 200, -100}
	for i, w := range wants {
		if got[i].Running != w {
			t.Fatalf("month %d expected running %d, got %d", i+1, w, got[i].Running)
		}
	}
}

func TestProgress(t *testing.T) {
	goal := InvestmentGoal{Name: "reserve", Target: Money{Cents: 10000}}
	if gp := Progress(goal, Money{Cents: 2500}); gp.Percent != 25 {
		t.Fatalf("expected 25%%, got %d", gp.Percent)
	}
	if gp := Progress(goal, Money{Cents: 20000}); gp.Percent != 100 {
		t.Fatalf("expected cap at 100%%, got %d", gp.Percent)
	}
	if gp := Progress(InvestmentGoal{Name: "x"}, Money{Cents: 100}); gp.Percent != 0 {
		t.Fatalf("zero target should stay 0%%, got %d", gp.Percent)
	}
}
