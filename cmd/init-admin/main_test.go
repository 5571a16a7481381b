package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow/docflow/internal/core/auth"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewMemoryRepository()

	created, err := ensureAdmin(ctx, repo, " Root@Example.com ", "s3cret-pass", "Root")
	require.NoError(t, err)
	assert.True(t, created)

	user, err := repo.GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, auth.RoleAdmin, user.Role)

	created, err = ensureAdmin(ctx, repo, "root@example.com", "ignored", "Root")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureAdmin_PromotesExistingUser(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewMemoryRepository()
	editor := &auth.User{
		ID: uuid.New(), Email: "ed@example.com", Name: "Ed",
		Role: auth.RoleEditor, Status: auth.UserStatusDisabled,
	}
	require.NoError(t, repo.CreateUser(ctx, editor))

	created, err := ensureAdmin(ctx, repo, "ed@example.com", "whatever", "Ed")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := repo.GetUserByID(ctx, editor.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.Equal(t, auth.UserStatusActive, user.Status)
}
