package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docflow/docflow/config"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}, zap.NewNop())
}

func register(t *testing.T, svc *Service, email string) *User {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email: email, Password: "correct horse", Name: email,
	})
	require.NoError(t, err)
	return resp.User
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{Email: "Ana@Example.com", Password: "correct horse", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, RoleEditor, resp.User.Role)
	assert.NotEqual(t, "correct horse", resp.User.PasswordHash)

	_, err = svc.Register(ctx, &RegisterRequest{Email: "ana@example.com", Password: "whatever1", Name: "Ana 2"})
	require.ErrorIs(t, err, ErrUserExists)

	login, err := svc.Login(ctx, &LoginRequest{Email: "ANA@example.com", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, RoleEditor, claims.Role)

	first, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.NotEqual(t, first.ID, claims.ID, "each token carries its own session id")

	_, err = svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService()
	user := register(t, svc, "bo@example.com")

	other := NewService(NewMemoryRepository(), &config.JWTConfig{Secret: "another", ExpirationHours: 1}, zap.NewNop())
	foreign, err := other.generateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	require.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.generateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	require.Error(t, err)
}

func TestSetRole(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	admin := register(t, svc, "admin@example.com")
	editor := register(t, svc, "editor@example.com")

	promoted, err := svc.SetRole(ctx, admin.ID, admin.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)

	_, err = svc.SetRole(ctx, admin.ID, admin.ID, RoleViewer)
	require.ErrorIs(t, err, ErrLastAdmin)

	_, err = svc.SetRole(ctx, admin.ID, editor.ID, Role("owner"))
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.SetRole(ctx, admin.ID, uuid.New(), RoleViewer)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetRole(ctx, admin.ID, editor.ID, RoleAdmin)
	require.NoError(t, err)
	demoted, err := svc.SetRole(ctx, editor.ID, admin.ID, RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, demoted.Role)
}

func TestPermissions(t *testing.T) {
	assert.ElementsMatch(t, AllPermissions, Permissions(RoleAdmin))
	assert.Contains(t, Permissions(RoleEditor), PermApprovalDecide)
	assert.NotContains(t, Permissions(RoleViewer), PermDocumentWrite)
	assert.Empty(t, Permissions(Role("ghost")))

	perms := Permissions(RoleViewer)
	perms[0] = "tampered"
	assert.Equal(t, PermDocumentRead, ViewerPermissions[0])
}

func TestListUsers(t *testing.T) {
	svc := newTestService()
	register(t, svc, "zed@example.com")
	register(t, svc, "amy@example.com")

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amy@example.com", users[0].Name)
}
