package services

import (
	"context"

	"caixa/internal/cache"
	"caixa/internal/core"
)

// WorkspaceStorage is the slice of the repository behind the project,
// category, and goal operations.
type WorkspaceStorage interface {
	CreateProject(ctx context.Context, userID string, p core.Project) (core.Project, error)
	ListProjects(ctx context.Context, userID string) ([]core.Project, error)
	GetProject(ctx context.Context, userID, id string) (*core.Project, error)
	DeleteProject(ctx context.Context, userID, id string) error

	CreateCategory(ctx context.Context, scope core.Scope, c core.Category) (core.Category, error)
	ListCategories(ctx context.Context, scope core.Scope) ([]core.Category, error)
	DeleteCategory(ctx context.Context, scope core.Scope, id string) error

	CreateGoal(ctx context.Context, scope core.Scope, g core.InvestmentGoal) (core.InvestmentGoal, error)
	ListGoals(ctx context.Context, scope core.Scope) ([]core.InvestmentGoal, error)
	DeleteGoal(ctx context.Context, scope core.Scope, id string) error
}

// WorkspaceService manages the structures transactions hang off: projects,
// categories, and investment goals.
type WorkspaceService struct {
	storage     WorkspaceStorage
	invalidator *Invalidator
}

func NewWorkspaceService(storage WorkspaceStorage, invalidator *Invalidator) *WorkspaceService {
	return &WorkspaceService{storage: storage, invalidator: invalidator}
}

func (s *WorkspaceService) CreateProject(ctx context.Context, userID string, p core.Project) (core.Project, error) {
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	return s.storage.CreateProject(ctx, userID, p)
}

func (s *WorkspaceService) ListProjects(ctx context.Context, userID string) ([]core.Project, error) {
	return s.storage.ListProjects(ctx, userID)
}

// DeleteProject removes a project and everything recorded under it, then
// drops the project scope's caches entirely.
func (s *WorkspaceService) DeleteProject(ctx context.Context, userID, id string) error {
	if err := s.storage.DeleteProject(ctx, userID, id); err != nil {
		return err
	}
	scope := core.Scope{UserID: userID, ProjectID: &id}
	s.invalidator.Invalidate(ctx, scope, cache.AllRegions()...)
	return nil
}

func (s *WorkspaceService) CreateCategory(ctx context.Context, scope core.Scope, c core.Category) (core.Category, error) {
	if err := scope.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.storage.CreateCategory(ctx, scope, c)
}

func (s *WorkspaceService) ListCategories(ctx context.Context, scope core.Scope) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, scope)
}

// DeleteCategory drops the category; summaries group its transactions
// under "uncategorized" afterwards, so the analytics caches go stale.
func (s *WorkspaceService) DeleteCategory(ctx context.Context, scope core.Scope, id string) error {
	if err := s.storage.DeleteCategory(ctx, scope, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, scope, cache.RegionAnalytics, cache.RegionInvestment)
	return nil
}

func (s *WorkspaceService) CreateGoal(ctx context.Context, scope core.Scope, g core.InvestmentGoal) (core.InvestmentGoal, error) {
	if err := scope.Validate(); err != nil {
		return core.InvestmentGoal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.InvestmentGoal{}, err
	}
	created, err := s.storage.CreateGoal(ctx, scope, g)
	if err != nil {
		return core.InvestmentGoal{}, err
	}
	s.invalidator.Invalidate(ctx, scope, cache.RegionInvestment)
	return created, nil
}

func (s *WorkspaceService) ListGoals(ctx context.Context, scope core.Scope) ([]core.InvestmentGoal, error) {
	return s.storage.ListGoals(ctx, scope)
}

func (s *WorkspaceService) DeleteGoal(ctx context.Context, scope core.Scope, id string) error {
	if err := s.storage.DeleteGoal(ctx, scope, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, scope, cache.RegionInvestment)
	return nil
}
