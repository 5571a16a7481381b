package approval

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/postgres"
)

// Repository returns (nil, nil) from GetByID when no request matches.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Request, error)
	ListByApprover(ctx context.Context, approverID uuid.UUID) ([]*Request, error)
	PendingForDocument(ctx context.Context, documentID uuid.UUID) (*Request, error)
	Update(ctx context.Context, req *Request) error
}

type pgRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &pgRepository{db: db}
}

const requestColumns = `id, document_id, title, category, type, priority, status, requester_id, approver_id,
	message, comment, due_date, created_at, decided_at`

func (r *pgRepository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO approval_requests
			(id, document_id, title, category, type, priority, status, requester_id, approver_id, message, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		req.ID, req.DocumentID, req.Title, req.Category, req.Type, req.Priority, req.Status,
		req.RequesterID, req.ApproverID, req.Message, req.DueDate,
	).Scan(&req.CreatedAt)
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests WHERE id = $1`
	return r.scanOne(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *pgRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests WHERE requester_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, requesterID)
}

func (r *pgRepository) ListByApprover(ctx context.Context, approverID uuid.UUID) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests WHERE approver_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, approverID)
}

func (r *pgRepository) PendingForDocument(ctx context.Context, documentID uuid.UUID) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests
		WHERE document_id = $1 AND status = 'pending'
		LIMIT 1`
	return r.scanOne(r.db.DB.QueryRowContext(ctx, query, documentID))
}

func (r *pgRepository) Update(ctx context.Context, req *Request) error {
	query := `
		UPDATE approval_requests
		SET status = $2, comment = $3, decided_at = $4
		WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, req.ID, req.Status, req.Comment, req.DecidedAt)
	return err
}

func (r *pgRepository) list(ctx context.Context, query string, args ...any) ([]*Request, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *pgRepository) scanOne(row *sql.Row) (*Request, error) {
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return req, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*Request, error) {
	req := &Request{}
	var message, comment sql.NullString
	var dueDate, decidedAt sql.NullTime

	if err := row.Scan(
		&req.ID, &req.DocumentID, &req.Title, &req.Category, &req.Type, &req.Priority, &req.Status,
		&req.RequesterID, &req.ApproverID, &message, &comment, &dueDate, &req.CreatedAt, &decidedAt,
	); err != nil {
		return nil, err
	}

	req.Message = message.String
	req.Comment = comment.String
	if dueDate.Valid {
		t := dueDate.Time
		req.DueDate = &t
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		req.DecidedAt = &t
	}
	return req, nil
}
