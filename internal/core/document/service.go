package document

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/core/category"
	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/template"
	"github.com/docflow/docflow/internal/core/validation"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrTemplateNotActive = errors.New("template is not active")
	ErrArchived          = errors.New("document is archived")
	ErrPendingApproval   = errors.New("document is awaiting approval")
	ErrInvalidTransition = errors.New("invalid document status transition")
	ErrNotOwner          = errors.New("only the owner or an admin may change this document")
)

// Actor is the user changing a document. Admins may change any document.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// CanChange reports whether a may change or submit doc.
func (a Actor) CanChange(doc *Document) bool {
	return a.Admin || doc.OwnerID == a.UserID
}

type Service struct {
	repo        Repository
	templateSvc *template.Service
	validator   *validation.Validator
	sorter      *listing.Sorter
	log         *zap.Logger
}

func NewService(repo Repository, templateSvc *template.Service, validator *validation.Validator, sorter *listing.Sorter, log *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		templateSvc: templateSvc,
		validator:   validator,
		sorter:      sorter,
		log:         log.Named("document"),
	}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateDocumentRequest) (*Document, error) {
	doc := &Document{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Category:   category.Category(req.Category),
		Type:       FileType(req.Type),
		Status:     StatusDraft,
		Size:       req.Size,
		TemplateID: req.TemplateID,
		Data:       req.Data,
		Tags:       req.Tags,
		OwnerID:    ownerID,
	}
	if err := s.check(doc); err != nil {
		return nil, err
	}

	if doc.TemplateID != nil {
		tpl, err := s.templateSvc.Get(ctx, *doc.TemplateID)
		if err != nil {
			if errors.Is(err, template.ErrNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
		if tpl.Status != template.StatusActive {
			return nil, ErrTemplateNotActive
		}
		if err := s.validator.Validate(doc.Data, tpl.Schema); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Info("document created",
		zap.Stringer("id", doc.ID),
		zap.String("name", doc.Name),
		zap.Stringer("owner", doc.OwnerID),
	)
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *Service) List(ctx context.Context, st listing.State, limit, offset int) (*ListDocumentsResponse, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := listing.Query(s.sorter, docs, st, limit, offset)
	return &res, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateDocumentRequest) (*Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanChange(doc) {
		return nil, ErrNotOwner
	}
	switch doc.Status {
	case StatusArchived:
		return nil, ErrArchived
	case StatusPending:
		return nil, ErrPendingApproval
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		doc.Name = name
	}
	if req.Category != "" {
		doc.Category = category.Category(req.Category)
	}
	if req.Tags != nil {
		doc.Tags = req.Tags
	}

	if req.Data != nil {
		if doc.Data == nil {
			doc.Data = make(map[string]interface{}, len(req.Data))
		}
		for k, v := range req.Data {
			doc.Data[k] = v
		}

		if doc.TemplateID != nil {
			schema, err := s.templateSvc.GetSchema(ctx, *doc.TemplateID)
			if err != nil && !errors.Is(err, template.ErrNotFound) {
				return nil, err
			}
			if err := s.validator.Validate(doc.Data, schema); err != nil {
				return nil, err
			}
		}
	}

	if err := s.check(doc); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Archive moves a document out of the active workflow.
func (s *Service) Archive(ctx context.Context, actor Actor, id uuid.UUID) (*Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanChange(doc) {
		return nil, ErrNotOwner
	}
	return s.Transition(ctx, id, StatusArchived)
}

// Transition moves a document to a new status if the workflow allows it.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to Status) (*Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(doc.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		return nil, err
	}

	s.log.Info("document status changed",
		zap.Stringer("id", id),
		zap.String("from", string(doc.Status)),
		zap.String("to", string(to)),
	)
	return s.Get(ctx, id)
}

// Restore puts a document back into a status without workflow checks. It
// undoes a transition whose follow-up step failed.
func (s *Service) Restore(ctx context.Context, id uuid.UUID, status Status) error {
	return s.repo.SetStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanChange(doc) {
		return ErrNotOwner
	}
	if doc.Status == StatusPending {
		return ErrPendingApproval
	}

	return s.repo.Delete(ctx, id)
}

// CanTransition encodes the approval workflow:
// draft -> pending -> approved|rejected, pending -> draft on cancel,
// rejected -> draft|pending on rework, and anything but pending -> archived.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusPending:
		return from == StatusDraft || from == StatusRejected
	case StatusApproved, StatusRejected:
		return from == StatusPending
	case StatusDraft:
		return from == StatusPending || from == StatusRejected
	case StatusArchived:
		return from != StatusPending && from != StatusArchived
	}
	return false
}

func (s *Service) check(doc *Document) error {
	var errs []validation.ValidationError
	if doc.Name == "" {
		errs = append(errs, validation.ValidationError{Field: "name", Message: "is required"})
	}
	if !doc.Category.Valid() {
		errs = append(errs, validation.ValidationError{Field: "category", Message: "unknown category " + string(doc.Category)})
	}
	if !doc.Type.Valid() {
		errs = append(errs, validation.ValidationError{Field: "type", Message: "unknown type " + string(doc.Type)})
	}
	if doc.Size < 0 {
		errs = append(errs, validation.ValidationError{Field: "size", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return &validation.ValidationErrors{Errors: errs}
	}
	return nil
}
