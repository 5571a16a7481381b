package approval

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/validation"
	"github.com/docflow/docflow/internal/storage/postgres"
)

var (
	ErrNotFound         = errors.New("approval request not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrApproverNotFound = errors.New("approver not found")
	ErrSelfApproval     = errors.New("requester cannot approve their own request")
	ErrAlreadyRequested = errors.New("document already has a pending approval request")
	ErrNotPending       = errors.New("approval request is no longer pending")
	ErrForbidden        = errors.New("not allowed to act on this approval request")
	ErrNotDocumentOwner = errors.New("only the document owner or an admin may request approval")
)

// Decision is the approver's verdict.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type Service struct {
	repo        Repository
	documentSvc *document.Service
	authSvc     *auth.Service
	sorter      *listing.Sorter
	log         *zap.Logger
	now         func() time.Time
}

func NewService(repo Repository, documentSvc *document.Service, authSvc *auth.Service, sorter *listing.Sorter, log *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		documentSvc: documentSvc,
		authSvc:     authSvc,
		sorter:      sorter,
		log:         log.Named("approval"),
		now:         time.Now,
	}
}

// Create submits a document for approval and moves it to pending.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, req *CreateRequest) (*Request, error) {
	if req.ApproverID == requesterID {
		return nil, ErrSelfApproval
	}

	r := &Request{
		ID:          uuid.New(),
		DocumentID:  req.DocumentID,
		Title:       strings.TrimSpace(req.Title),
		Category:    Category(req.Category),
		Type:        Type(req.Type),
		Priority:    Priority(req.Priority),
		Status:      StatusPending,
		RequesterID: requesterID,
		ApproverID:  req.ApproverID,
		Message:     req.Message,
		DueDate:     req.DueDate,
	}
	if r.Type == "" {
		r.Type = TypeReview
	}
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if err := check(r); err != nil {
		return nil, err
	}

	doc, err := s.documentSvc.Get(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if err := s.checkOwner(ctx, requesterID, doc); err != nil {
		return nil, err
	}
	if r.Title == "" {
		r.Title = doc.Name
	}

	if _, err := s.authSvc.GetUserByID(ctx, req.ApproverID); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, ErrApproverNotFound
		}
		return nil, err
	}

	existing, err := s.repo.PendingForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRequested
	}

	if _, err := s.documentSvc.Transition(ctx, doc.ID, document.StatusPending); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		if postgres.IsUniqueViolation(err) {
			err = ErrAlreadyRequested
		}
		s.restoreDocument(ctx, doc.ID, doc.Status)
		return nil, err
	}

	s.log.Info("approval requested",
		zap.Stringer("id", r.ID),
		zap.Stringer("document_id", r.DocumentID),
		zap.Stringer("requester_id", r.RequesterID),
		zap.Stringer("approver_id", r.ApproverID),
	)
	return r, nil
}

// Get returns a request visible to the given user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if r.RequesterID != userID && r.ApproverID != userID {
		return nil, ErrForbidden
	}
	return r, nil
}

// ListSent lists the requests a user submitted.
func (s *Service) ListSent(ctx context.Context, requesterID uuid.UUID, st listing.State, limit, offset int) (*ListRequestsResponse, error) {
	reqs, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	res := listing.Query(s.sorter, reqs, st, limit, offset)
	return &res, nil
}

// ListReceived lists the requests waiting on, or decided by, a user.
func (s *Service) ListReceived(ctx context.Context, approverID uuid.UUID, st listing.State, limit, offset int) (*ListRequestsResponse, error) {
	reqs, err := s.repo.ListByApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}
	res := listing.Query(s.sorter, reqs, st, limit, offset)
	return &res, nil
}

// Decide records the approver's verdict and updates the document.
func (s *Service) Decide(ctx context.Context, approverID, id uuid.UUID, decision Decision, comment string) (*Request, error) {
	var status Status
	var docStatus document.Status
	switch decision {
	case DecisionApprove:
		status, docStatus = StatusApproved, document.StatusApproved
	case DecisionReject:
		status, docStatus = StatusRejected, document.StatusRejected
	default:
		return nil, validation.Field("decision", "must be approve or reject")
	}

	r, err := s.Get(ctx, approverID, id)
	if err != nil {
		return nil, err
	}
	if r.ApproverID != approverID {
		return nil, ErrForbidden
	}
	if r.Status != StatusPending {
		return nil, ErrNotPending
	}

	moved, err := s.documentSvc.Transition(ctx, r.DocumentID, docStatus)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	r.Status = status
	r.Comment = comment
	r.DecidedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		if moved != nil {
			s.restoreDocument(ctx, r.DocumentID, document.StatusPending)
		}
		return nil, err
	}

	s.log.Info("approval decided",
		zap.Stringer("id", r.ID),
		zap.String("status", string(r.Status)),
		zap.Stringer("approver_id", approverID),
	)
	return r, nil
}

// Cancel withdraws a pending request and returns the document to draft.
func (s *Service) Cancel(ctx context.Context, requesterID, id uuid.UUID) (*Request, error) {
	r, err := s.Get(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	if r.RequesterID != requesterID {
		return nil, ErrForbidden
	}
	if r.Status != StatusPending {
		return nil, ErrNotPending
	}

	moved, err := s.documentSvc.Transition(ctx, r.DocumentID, document.StatusDraft)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	r.Status = StatusCancelled
	r.DecidedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		if moved != nil {
			s.restoreDocument(ctx, r.DocumentID, document.StatusPending)
		}
		return nil, err
	}

	s.log.Info("approval cancelled", zap.Stringer("id", r.ID))
	return r, nil
}

// checkOwner lets the document owner, or any admin, submit it.
func (s *Service) checkOwner(ctx context.Context, requesterID uuid.UUID, doc *document.Document) error {
	actor := document.Actor{UserID: requesterID}
	if actor.CanChange(doc) {
		return nil
	}
	requester, err := s.authSvc.GetUserByID(ctx, requesterID)
	if err != nil && !errors.Is(err, auth.ErrNotFound) {
		return err
	}
	actor.Admin = requester != nil && requester.Role == auth.RoleAdmin
	if !actor.CanChange(doc) {
		return ErrNotDocumentOwner
	}
	return nil
}

// restoreDocument undoes a document transition after the request itself
// could not be saved, so the two never disagree.
func (s *Service) restoreDocument(ctx context.Context, id uuid.UUID, status document.Status) {
	if err := s.documentSvc.Restore(ctx, id, status); err != nil {
		s.log.Warn("restore document status",
			zap.Stringer("document_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

func check(r *Request) error {
	var errs []validation.ValidationError
	if !r.Category.Valid() {
		errs = append(errs, validation.ValidationError{Field: "category", Message: "unknown category " + string(r.Category)})
	}
	if !r.Type.Valid() {
		errs = append(errs, validation.ValidationError{Field: "type", Message: "unknown type " + string(r.Type)})
	}
	if !r.Priority.Valid() {
		errs = append(errs, validation.ValidationError{Field: "priority", Message: "unknown priority " + string(r.Priority)})
	}
	if len(errs) > 0 {
		return &validation.ValidationErrors{Errors: errs}
	}
	return nil
}
