package template

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/memory"
)

type memoryRepository struct {
	rows *memory.Table[*Template]
	now  func() time.Time
}

// NewMemoryRepository keeps templates in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		rows: memory.NewTable(cloneTemplate),
		now:  time.Now,
	}
}

func cloneTemplate(t *Template) *Template {
	c := *t
	c.Schema = memory.CloneMap(t.Schema)
	return &c
}

func (r *memoryRepository) Create(ctx context.Context, t *Template) error {
	now := r.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	return r.rows.Insert(t.ID, t)
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	t, ok := r.rows.Get(id)
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Template, error) {
	return r.rows.Select(nil), nil
}

func (r *memoryRepository) Update(ctx context.Context, t *Template) error {
	t.UpdatedAt = r.now().UTC()
	r.rows.Replace(t.ID, t)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}

func (r *memoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, ok := r.rows.First(func(t *Template) bool { return strings.EqualFold(t.Name, name) })
	return ok, nil
}
