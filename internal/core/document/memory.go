package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/memory"
)

type memoryRepository struct {
	rows *memory.Table[*Document]
	now  func() time.Time
}

// NewMemoryRepository keeps documents in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		rows: memory.NewTable(cloneDocument),
		now:  time.Now,
	}
}

func cloneDocument(d *Document) *Document {
	c := *d
	c.Data = memory.CloneMap(d.Data)
	if d.Tags != nil {
		c.Tags = append([]string(nil), d.Tags...)
	}
	if d.TemplateID != nil {
		id := *d.TemplateID
		c.TemplateID = &id
	}
	return &c
}

func (r *memoryRepository) Create(ctx context.Context, doc *Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = r.now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	return r.rows.Insert(doc.ID, doc)
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, ok := r.rows.Get(id)
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Document, error) {
	return r.rows.Select(nil), nil
}

func (r *memoryRepository) Update(ctx context.Context, doc *Document) error {
	doc.UpdatedAt = r.now().UTC()
	r.rows.Replace(doc.ID, doc)
	return nil
}

func (r *memoryRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	doc, ok := r.rows.Get(id)
	if !ok {
		return nil
	}
	doc.Status = status
	doc.UpdatedAt = r.now().UTC()
	r.rows.Replace(id, doc)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}

func (r *memoryRepository) CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error) {
	return len(r.rows.Select(func(d *Document) bool {
		return d.TemplateID != nil && *d.TemplateID == templateID
	})), nil
}
