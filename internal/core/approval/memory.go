package approval

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/memory"
)

type memoryRepository struct {
	rows *memory.Table[*Request]
	now  func() time.Time
}

// NewMemoryRepository keeps approval requests in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		rows: memory.NewTable(cloneRequest),
		now:  time.Now,
	}
}

func cloneRequest(r *Request) *Request {
	c := *r
	if r.DueDate != nil {
		t := *r.DueDate
		c.DueDate = &t
	}
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

func (r *memoryRepository) Create(ctx context.Context, req *Request) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.now().UTC()
	}
	return r.rows.Insert(req.ID, req)
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, ok := r.rows.Get(id)
	if !ok {
		return nil, nil
	}
	return req, nil
}

func (r *memoryRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Request, error) {
	return r.rows.Select(func(req *Request) bool { return req.RequesterID == requesterID }), nil
}

func (r *memoryRepository) ListByApprover(ctx context.Context, approverID uuid.UUID) ([]*Request, error) {
	return r.rows.Select(func(req *Request) bool { return req.ApproverID == approverID }), nil
}

func (r *memoryRepository) PendingForDocument(ctx context.Context, documentID uuid.UUID) (*Request, error) {
	req, ok := r.rows.First(func(req *Request) bool {
		return req.DocumentID == documentID && req.Status == StatusPending
	})
	if !ok {
		return nil, nil
	}
	return req, nil
}

func (r *memoryRepository) Update(ctx context.Context, req *Request) error {
	r.rows.Replace(req.ID, req)
	return nil
}
