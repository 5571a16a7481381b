package auth

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/storage/memory"
)

type memoryRepository struct {
	rows *memory.Table[*User]
}

// NewMemoryRepository keeps users in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		rows: memory.NewTable(func(u *User) *User { c := *u; return &c }),
	}
}

func (r *memoryRepository) CreateUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return r.rows.Insert(user.ID, user)
}

func (r *memoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(email)
	user, ok := r.rows.First(func(u *User) bool { return u.Email == email })
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *memoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := r.rows.Get(id)
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *memoryRepository) ListUsers(ctx context.Context) ([]*User, error) {
	users := r.rows.Select(nil)
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *memoryRepository) UpdateUser(ctx context.Context, user *User) error {
	r.rows.Replace(user.ID, user)
	return nil
}
