package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/postgres"
)

// Repository returns (nil, nil) from the Get methods when no user matches.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

type pgRepository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) Repository {
	return &pgRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, status, created_at`

func (r *pgRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	return r.db.DB.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Role, user.Status,
	).Scan(&user.CreatedAt)
}

func (r *pgRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (r *pgRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *pgRepository) ListUsers(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name, id`
	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.Status, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgRepository) UpdateUser(ctx context.Context, user *User) error {
	query := `UPDATE users SET name = $2, role = $3, status = $4, password_hash = $5 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, user.ID, user.Name, user.Role, user.Status, user.PasswordHash)
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.Status, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
