package document

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/template"
	"github.com/docflow/docflow/internal/core/validation"
)

type fixture struct {
	svc       *Service
	templates *template.Service
	repo      Repository
	owner     uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository().(*memoryRepository)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	validator := validation.NewValidator()
	sorter := listing.NewSorter("en")
	templates := template.NewService(template.NewMemoryRepository(), validator, sorter, zap.NewNop())
	templates.SetUsageCounter(repo)

	return &fixture{
		svc:       NewService(repo, templates, validator, sorter, zap.NewNop()),
		templates: templates,
		repo:      repo,
		owner:     uuid.New(),
	}
}

func (f *fixture) leaveTemplate(t *testing.T, status string) *template.Template {
	t.Helper()
	tpl, err := f.templates.Create(context.Background(), f.owner, &template.CreateTemplateRequest{
		Name:     "Leave request " + status,
		Category: "policy",
		Type:     "form",
		Status:   status,
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"days": map[string]interface{}{"type": "integer", "minimum": 1},
			},
			"required": []interface{}{"days"},
		},
	})
	require.NoError(t, err)
	return tpl
}

func (f *fixture) actor() Actor {
	return Actor{UserID: f.owner}
}

func (f *fixture) create(t *testing.T, name, cat, typ string) *Document {
	t.Helper()
	doc, err := f.svc.Create(context.Background(), f.owner, &CreateDocumentRequest{
		Name: name, Category: cat, Type: typ, Size: 1024,
	})
	require.NoError(t, err)
	return doc
}

func TestService_Create(t *testing.T) {
	f := setup(t)

	doc := f.create(t, "  Q1 budget ", "report", "xlsx")
	assert.Equal(t, "Q1 budget", doc.Name)
	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, f.owner, doc.OwnerID)
	assert.False(t, doc.UpdatedAt.IsZero())

	_, err := f.svc.Create(context.Background(), f.owner, &CreateDocumentRequest{Name: "x", Category: "nope", Type: "pdf"})
	ve := validation.GetValidationErrors(err)
	require.NotNil(t, ve)
	assert.Equal(t, "category", ve.Errors[0].Field)
}

func TestService_CreateFromTemplate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	active := f.leaveTemplate(t, "active")
	draft := f.leaveTemplate(t, "draft")

	doc, err := f.svc.Create(ctx, f.owner, &CreateDocumentRequest{
		Name: "Leave - June", Category: "policy", Type: "pdf",
		TemplateID: &active.ID,
		Data:       map[string]interface{}{"days": 3},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.TemplateID)

	_, err = f.svc.Create(ctx, f.owner, &CreateDocumentRequest{
		Name: "Leave - bad", Category: "policy", Type: "pdf",
		TemplateID: &active.ID,
		Data:       map[string]interface{}{"days": 0},
	})
	assert.True(t, validation.IsValidationError(err))

	_, err = f.svc.Create(ctx, f.owner, &CreateDocumentRequest{
		Name: "Leave - draft tpl", Category: "policy", Type: "pdf", TemplateID: &draft.ID,
	})
	require.ErrorIs(t, err, ErrTemplateNotActive)

	missing := uuid.New()
	_, err = f.svc.Create(ctx, f.owner, &CreateDocumentRequest{
		Name: "Leave - ghost", Category: "policy", Type: "pdf", TemplateID: &missing,
	})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	require.ErrorIs(t, f.templates.Delete(ctx, active.ID), template.ErrInUse)
	require.NoError(t, f.templates.Delete(ctx, draft.ID))
}

func TestService_UpdateMergesAndRevalidates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tpl := f.leaveTemplate(t, "active")

	doc, err := f.svc.Create(ctx, f.owner, &CreateDocumentRequest{
		Name: "Leave", Category: "policy", Type: "pdf", TemplateID: &tpl.ID,
		Data: map[string]interface{}{"days": 2},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.actor(), doc.ID, &UpdateDocumentRequest{
		Name: "Leave (revised)",
		Data: map[string]interface{}{"note": "family trip"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Leave (revised)", updated.Name)
	assert.Equal(t, "family trip", updated.Data["note"])
	assert.EqualValues(t, 2, updated.Data["days"])
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))

	_, err = f.svc.Update(ctx, f.actor(), doc.ID, &UpdateDocumentRequest{Data: map[string]interface{}{"days": "many"}})
	assert.True(t, validation.IsValidationError(err))

	stored, err := f.svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.Data["days"])
}

func TestService_Workflow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	doc := f.create(t, "Supplier contract", "contract", "pdf")

	_, err := f.svc.Transition(ctx, doc.ID, StatusApproved)
	require.ErrorIs(t, err, ErrInvalidTransition)

	pending, err := f.svc.Transition(ctx, doc.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, pending.Status)

	_, err = f.svc.Update(ctx, f.actor(), doc.ID, &UpdateDocumentRequest{Name: "edited"})
	require.ErrorIs(t, err, ErrPendingApproval)
	require.ErrorIs(t, f.svc.Delete(ctx, f.actor(), doc.ID), ErrPendingApproval)
	_, err = f.svc.Archive(ctx, f.actor(), doc.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Transition(ctx, doc.ID, StatusApproved)
	require.NoError(t, err)

	archived, err := f.svc.Archive(ctx, f.actor(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, archived.Status)

	_, err = f.svc.Update(ctx, f.actor(), doc.ID, &UpdateDocumentRequest{Name: "edited"})
	require.ErrorIs(t, err, ErrArchived)

	require.NoError(t, f.svc.Delete(ctx, f.actor(), doc.ID))
	_, err = f.svc.Get(ctx, doc.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_OnlyOwnerOrAdminChanges(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	doc := f.create(t, "Owner notes", "other", "pdf")
	stranger := Actor{UserID: uuid.New()}
	admin := Actor{UserID: uuid.New(), Admin: true}

	_, err := f.svc.Update(ctx, stranger, doc.ID, &UpdateDocumentRequest{Name: "taken"})
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = f.svc.Archive(ctx, stranger, doc.ID)
	require.ErrorIs(t, err, ErrNotOwner)
	require.ErrorIs(t, f.svc.Delete(ctx, stranger, doc.ID), ErrNotOwner)

	stored, err := f.svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owner notes", stored.Name)
	assert.Equal(t, StatusDraft, stored.Status)

	updated, err := f.svc.Update(ctx, admin, doc.ID, &UpdateDocumentRequest{Name: "Reviewed notes"})
	require.NoError(t, err)
	assert.Equal(t, "Reviewed notes", updated.Name)
	require.NoError(t, f.svc.Delete(ctx, admin, doc.ID))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusRejected, StatusPending, true},
		{StatusApproved, StatusPending, false},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusDraft, StatusRejected, false},
		{StatusPending, StatusDraft, true},
		{StatusApproved, StatusDraft, false},
		{StatusApproved, StatusArchived, true},
		{StatusPending, StatusArchived, false},
		{StatusArchived, StatusArchived, false},
		{StatusDraft, Status("lost"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestService_ListAppliesState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, "Zeta invoice", "invoice", "pdf")
	f.create(t, "alpha report", "report", "docx")
	f.create(t, "Beta invoice", "invoice", "xlsx")
	f.create(t, "Omega invoice", "invoice", "pdf")

	res, err := f.svc.List(ctx, listing.State{
		Criteria: listing.Criteria{Categories: []string{"invoice"}, Search: "INVOICE"},
		Sort:     listing.SortNameAsc,
	}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Beta invoice", res.Items[0].Name)
	assert.Equal(t, "Omega invoice", res.Items[1].Name)

	res, err = f.svc.List(ctx, listing.DefaultState(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Omega invoice", res.Items[0].Name)
	assert.Equal(t, "Zeta invoice", res.Items[3].Name)
}
