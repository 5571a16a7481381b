package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docflow/docflow/config"
	"github.com/docflow/docflow/internal/core/approval"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/template"
	"github.com/docflow/docflow/internal/core/validation"
)

func seeded(t *testing.T) Repositories {
	t.Helper()
	repos := Repositories{
		Users:     auth.NewMemoryRepository(),
		Templates: template.NewMemoryRepository(),
		Documents: document.NewMemoryRepository(),
		Approvals: approval.NewMemoryRepository(),
	}
	n, err := Seed(context.Background(), repos)
	require.NoError(t, err)
	assert.Equal(t, Counts{Users: 4, Templates: 3, Documents: 7, Approvals: 4}, n)
	return repos
}

func TestSeed_IsConsistent(t *testing.T) {
	ctx := context.Background()
	repos := seeded(t)

	docs, err := repos.Documents.List(ctx)
	require.NoError(t, err)

	for _, d := range docs {
		owner, err := repos.Users.GetUserByID(ctx, d.OwnerID)
		require.NoError(t, err)
		require.NotNil(t, owner, "owner of %s", d.Name)

		pending, err := repos.Approvals.PendingForDocument(ctx, d.ID)
		require.NoError(t, err)
		if d.Status == document.StatusPending {
			assert.NotNil(t, pending, "%s is pending without a request", d.Name)
		} else {
			assert.Nil(t, pending, "%s has a stray pending request", d.Name)
		}

		if d.TemplateID != nil {
			tpl, err := repos.Templates.GetByID(ctx, *d.TemplateID)
			require.NoError(t, err)
			require.NotNil(t, tpl)
			assert.NoError(t, validation.NewValidator().Validate(d.Data, tpl.Schema), d.Name)
		}
	}
}

func TestSeed_RequestsReferenceKnownRecords(t *testing.T) {
	ctx := context.Background()
	repos := seeded(t)

	for _, email := range []string{"admin@docflow.local", "elif@docflow.local", "marco@docflow.local"} {
		sent, err := repos.Approvals.ListByRequester(ctx, ID("user", email))
		require.NoError(t, err)
		for _, r := range sent {
			assert.NotEqual(t, r.RequesterID, r.ApproverID)
			d, err := repos.Documents.GetByID(ctx, r.DocumentID)
			require.NoError(t, err)
			assert.NotNil(t, d, r.Title)
		}
	}
}

func TestSeed_AccountsCanLogIn(t *testing.T) {
	repos := seeded(t)
	svc := auth.NewService(repos.Users, &config.JWTConfig{Secret: "fixtures", ExpirationHours: 1}, zap.NewNop())

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "admin@docflow.local", Password: Password})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, resp.User.Role)
	assert.Equal(t, ID("user", "admin@docflow.local"), resp.User.ID)
}

func TestSeed_RejectsSecondRun(t *testing.T) {
	repos := seeded(t)
	_, err := Seed(context.Background(), repos)
	require.Error(t, err)
}
