package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/postgres"
)

// Repository returns (nil, nil) from GetByID when no template matches.
type Repository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type pgRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &pgRepository{db: db}
}

const templateColumns = `id, name, description, category, type, status, schema, created_by, created_at, updated_at`

func (r *pgRepository) Create(ctx context.Context, t *Template) error {
	schema, err := json.Marshal(t.Schema)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO templates (id, name, description, category, type, status, schema, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Description, t.Category, t.Type, t.Status, schema, t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`

	t, err := scanTemplate(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// List returns templates oldest first; ordering for display is done by the caller.
func (r *pgRepository) List(ctx context.Context) ([]*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY created_at, id`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *pgRepository) Update(ctx context.Context, t *Template) error {
	schema, err := json.Marshal(t.Schema)
	if err != nil {
		return err
	}

	query := `
		UPDATE templates
		SET name = $2, description = $3, category = $4, type = $5, status = $6, schema = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Description, t.Category, t.Type, t.Status, schema,
	).Scan(&t.UpdatedAt)
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	return err
}

func (r *pgRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM templates WHERE lower(name) = lower($1))`
	var exists bool
	err := r.db.DB.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*Template, error) {
	t := &Template{}
	var schema []byte
	var description sql.NullString

	if err := row.Scan(
		&t.ID, &t.Name, &description, &t.Category, &t.Type, &t.Status,
		&schema, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Description = description.String
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &t.Schema); err != nil {
			return nil, fmt.Errorf("decode schema of template %s: %w", t.ID, err)
		}
	}
	return t, nil
}
