package template

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/core/category"
	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/validation"
	"github.com/docflow/docflow/internal/storage/postgres"
)

var (
	ErrNotFound      = errors.New("template not found")
	ErrAlreadyExists = errors.New("template with this name already exists")
	ErrInUse         = errors.New("template is used by existing documents")
)

// UsageCounter reports how many documents were created from a template.
type UsageCounter interface {
	CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error)
}

type Service struct {
	repo      Repository
	validator *validation.Validator
	sorter    *listing.Sorter
	usage     UsageCounter
	log       *zap.Logger
}

func NewService(repo Repository, validator *validation.Validator, sorter *listing.Sorter, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		sorter:    sorter,
		log:       log.Named("template"),
	}
}

// SetUsageCounter enables the in-use check on Delete.
func (s *Service) SetUsageCounter(u UsageCounter) {
	s.usage = u
}

func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateTemplateRequest) (*Template, error) {
	status := Status(req.Status)
	if status == "" {
		status = StatusDraft
	}

	t := &Template{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    category.Category(req.Category),
		Type:        Type(req.Type),
		Status:      status,
		Schema:      req.Schema,
		CreatedBy:   createdBy,
	}
	if err := s.check(t); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	s.log.Info("template created", zap.Stringer("id", t.ID), zap.String("name", t.Name))
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) GetSchema(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Schema, nil
}

func (s *Service) List(ctx context.Context, st listing.State, limit, offset int) (*ListTemplatesResponse, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := listing.Query(s.sorter, templates, st, limit, offset)
	return &res, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateTemplateRequest) (*Template, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" && !strings.EqualFold(name, t.Name) {
		exists, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAlreadyExists
		}
		t.Name = name
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Category != "" {
		t.Category = category.Category(req.Category)
	}
	if req.Type != "" {
		t.Type = Type(req.Type)
	}
	if req.Status != "" {
		t.Status = Status(req.Status)
	}
	if req.Schema != nil {
		t.Schema = req.Schema
	}

	if err := s.check(t); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if s.usage != nil {
		n, err := s.usage.CountByTemplate(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrInUse
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("template deleted", zap.Stringer("id", id))
	return nil
}

func (s *Service) check(t *Template) error {
	var errs []validation.ValidationError
	if t.Name == "" {
		errs = append(errs, validation.ValidationError{Field: "name", Message: "is required"})
	}
	if !t.Category.Valid() {
		errs = append(errs, validation.ValidationError{Field: "category", Message: "unknown category " + string(t.Category)})
	}
	if !t.Type.Valid() {
		errs = append(errs, validation.ValidationError{Field: "type", Message: "unknown type " + string(t.Type)})
	}
	if !t.Status.Valid() {
		errs = append(errs, validation.ValidationError{Field: "status", Message: "unknown status " + string(t.Status)})
	}
	if len(errs) > 0 {
		return &validation.ValidationErrors{Errors: errs}
	}
	return s.validator.CheckSchema(t.Schema)
}
