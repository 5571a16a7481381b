package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/docflow/docflow/internal/storage/postgres"
)

// Repository returns (nil, nil) from GetByID when no document matches.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Update(ctx context.Context, doc *Document) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error)
}

type pgRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &pgRepository{db: db}
}

const documentColumns = `id, name, category, type, status, size, template_id, data, tags, owner_id, created_at, updated_at`

func (r *pgRepository) Create(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, name, category, type, status, size, template_id, data, tags, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		doc.ID, doc.Name, doc.Category, doc.Type, doc.Status, doc.Size,
		doc.TemplateID, data, pq.Array(doc.Tags), doc.OwnerID,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

func (r *pgRepository) List(ctx context.Context) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at, id`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *pgRepository) Update(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET name = $2, category = $3, data = $4, tags = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		doc.ID, doc.Name, doc.Category, data, pq.Array(doc.Tags),
	).Scan(&doc.UpdatedAt)
}

func (r *pgRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE documents SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, status)
	return err
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

func (r *pgRepository) CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error) {
	var n int
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE template_id = $1`, templateID,
	).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	doc := &Document{}
	var data []byte
	var templateID uuid.NullUUID
	var tags []string

	if err := row.Scan(
		&doc.ID, &doc.Name, &doc.Category, &doc.Type, &doc.Status, &doc.Size,
		&templateID, &data, pq.Array(&tags), &doc.OwnerID, &doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if templateID.Valid {
		id := templateID.UUID
		doc.TemplateID = &id
	}
	doc.Tags = tags
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode data of document %s: %w", doc.ID, err)
		}
	}
	return doc, nil
}
