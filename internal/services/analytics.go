package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"caixa/internal/cache"
	"caixa/internal/core"
)

// AnalyticsStorage is the slice of the repository the analytics service
// reads from.
type AnalyticsStorage interface {
	MonthOverview(ctx context.Context, scope core.Scope, year, month int) (*core.MonthOverview, error)
	MonthTotals(ctx context.Context, scope core.Scope) ([]core.BalancePoint, error)
	ListGoals(ctx context.Context, scope core.Scope) ([]core.InvestmentGoal, error)
	GoalContributed(ctx context.Context, scope core.Scope, g core.InvestmentGoal) (core.Money, error)
}

// AnalyticsService serves the dashboard reads. Results are cached per
// scope; the caches are registered under their regions so mutations and
// AMQP broadcasts flush them.
type AnalyticsService struct {
	storage    AnalyticsStorage
	summaries  *cache.LRUCache[*core.MonthOverview]
	history    *cache.LRUCache[[]core.BalancePoint]
	investment *cache.LRUCache[[]core.GoalProgress]
}

// NewAnalyticsService builds the service and registers its caches with
// the registry: summaries and balance history under analytics, goal
// progress under investment.
func NewAnalyticsService(storage AnalyticsStorage, registry *cache.Registry, maxSize int, ttl time.Duration) *AnalyticsService {
	s := &AnalyticsService{
		storage:    storage,
		summaries:  cache.NewLRUCache[*core.MonthOverview](maxSize, ttl),
		history:    cache.NewLRUCache[[]core.BalancePoint](maxSize, ttl),
		investment: cache.NewLRUCache[[]core.GoalProgress](maxSize, ttl),
	}
	if registry != nil {
		registry.Register(cache.RegionAnalytics, s.summaries)
		registry.Register(cache.RegionAnalytics, s.history)
		registry.Register(cache.RegionInvestment, s.investment)
	}
	return s
}

// Summary returns the month's dashboard overview for the scope.
func (s *AnalyticsService) Summary(ctx context.Context, scope core.Scope, year, month int) (*core.MonthOverview, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}

	key := cache.Key(scope.Key(), "summary", strconv.Itoa(year), strconv.Itoa(month))
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}

	overview, err := s.storage.MonthOverview(ctx, scope, year, month)
	if err != nil {
		return nil, fmt.Errorf("month overview: %w", err)
	}
	s.summaries.Set(key, overview)
	return overview, nil
}

// BalanceHistory returns the scope's cumulative month-end balances.
func (s *AnalyticsService) BalanceHistory(ctx context.Context, scope core.Scope) ([]core.BalancePoint, error) {
	key := cache.Key(scope.Key(), "history")
	if cached, ok := s.history.Get(key); ok {
		return cached, nil
	}

	points, err := s.storage.MonthTotals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	folded := core.BalanceHistory(points)
	s.history.Set(key, folded)
	return folded, nil
}

// Investment returns every goal in the scope with its contribution
// progress.
func (s *AnalyticsService) Investment(ctx context.Context, scope core.Scope) ([]core.GoalProgress, error) {
	key := cache.Key(scope.Key(), "investment")
	if cached, ok := s.investment.Get(key); ok {
		return cached, nil
	}

	goals, err := s.storage.ListGoals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	progress := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		contributed, err := s.storage.GoalContributed(ctx, scope, g)
		if err != nil {
			return nil, fmt.Errorf("goal %s contributions: %w", g.ID, err)
		}
		progress = append(progress, core.Progress(g, contributed))
	}
	s.investment.Set(key, progress)
	return progress, nil
}

// Caches exposes the service's caches for expiry sweeping.
func (s *AnalyticsService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.summaries, s.history, s.investment}
}
