package services

import (
	"context"
	"strings"

	"caixa/internal/core"
)

// TemplateInput is the validated request for a recurrence template.
type TemplateInput struct {
	Description string
	Amount      string // decimal string, parsed here
	DueDay      int
	CategoryID  *string
	Active      bool
}

// TemplateStorage is the slice of the repository the template service
// needs.
type TemplateStorage interface {
	CreateTemplate(ctx context.Context, scope core.Scope, t core.RecurrenceTemplate) (core.RecurrenceTemplate, error)
	UpdateTemplate(ctx context.Context, scope core.Scope, t core.RecurrenceTemplate) error
	GetTemplate(ctx context.Context, scope core.Scope, id string) (*core.RecurrenceTemplate, error)
	ListActiveTemplates(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error)
	ListTemplates(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error)
	DeleteTemplate(ctx context.Context, scope core.Scope, id string) error
}

// TemplateService manages recurrence templates. Template mutations touch
// no cache region: they only change what future reconciliation passes
// materialize.
type TemplateService struct {
	storage TemplateStorage
}

func NewTemplateService(storage TemplateStorage) *TemplateService {
	return &TemplateService{storage: storage}
}

func (s *TemplateService) Create(ctx context.Context, scope core.Scope, in TemplateInput) (core.RecurrenceTemplate, error) {
	t, err := s.validate(scope, in)
	if err != nil {
		return core.RecurrenceTemplate{}, err
	}
	return s.storage.CreateTemplate(ctx, scope, t)
}

func (s *TemplateService) Update(ctx context.Context, scope core.Scope, id string, in TemplateInput) (core.RecurrenceTemplate, error) {
	t, err := s.validate(scope, in)
	if err != nil {
		return core.RecurrenceTemplate{}, err
	}
	t.ID = id
	if err := s.storage.UpdateTemplate(ctx, scope, t); err != nil {
		return core.RecurrenceTemplate{}, err
	}
	return t, nil
}

func (s *TemplateService) Get(ctx context.Context, scope core.Scope, id string) (*core.RecurrenceTemplate, error) {
	return s.storage.GetTemplate(ctx, scope, id)
}

func (s *TemplateService) List(ctx context.Context, scope core.Scope) ([]core.RecurrenceTemplate, error) {
	return s.storage.ListTemplates(ctx, scope)
}

func (s *TemplateService) Delete(ctx context.Context, scope core.Scope, id string) error {
	return s.storage.DeleteTemplate(ctx, scope, id)
}

func (s *TemplateService) validate(scope core.Scope, in TemplateInput) (core.RecurrenceTemplate, error) {
	if err := scope.Validate(); err != nil {
		return core.RecurrenceTemplate{}, err
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.RecurrenceTemplate{}, err
	}
	t := core.RecurrenceTemplate{
		Description: strings.TrimSpace(in.Description),
		Amount:      core.Money{Cents: cents},
		DueDay:      in.DueDay,
		CategoryID:  in.CategoryID,
		Active:      in.Active,
	}
	if err := t.Validate(); err != nil {
		return core.RecurrenceTemplate{}, err
	}
	return t, nil
}
