// Package fixtures seeds the in-memory repositories with a small, fixed data
// set so the API is usable without a database.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/core/approval"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/category"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/template"
)

// Password is shared by every seeded account.
const Password = "docflow-demo"

var namespace = uuid.MustParse("6f1d7c2e-3b0a-4c55-9a8e-2f4b1e0d9c11")

// ID derives a stable id so seeded records can be referenced across restarts.
func ID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+"/"+name))
}

type Repositories struct {
	Users     auth.Repository
	Templates template.Repository
	Documents document.Repository
	Approvals approval.Repository
}

// Counts reports how many records Seed wrote.
type Counts struct {
	Users, Templates, Documents, Approvals int
}

var base = time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)

func at(days, hours int) time.Time {
	return base.AddDate(0, 0, days).Add(time.Duration(hours) * time.Hour)
}

// Seed writes the fixture set into repos.
func Seed(ctx context.Context, repos Repositories) (Counts, error) {
	var n Counts

	hash, err := auth.HashPassword(Password)
	if err != nil {
		return n, fmt.Errorf("hash fixture password: %w", err)
	}

	for _, u := range users(hash) {
		if err := repos.Users.CreateUser(ctx, u); err != nil {
			return n, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		n.Users++
	}
	for _, t := range templates() {
		if err := repos.Templates.Create(ctx, t); err != nil {
			return n, fmt.Errorf("seed template %s: %w", t.Name, err)
		}
		n.Templates++
	}
	for _, d := range documents() {
		if err := repos.Documents.Create(ctx, d); err != nil {
			return n, fmt.Errorf("seed document %s: %w", d.Name, err)
		}
		n.Documents++
	}
	for _, r := range approvals() {
		if err := repos.Approvals.Create(ctx, r); err != nil {
			return n, fmt.Errorf("seed approval %s: %w", r.Title, err)
		}
		n.Approvals++
	}
	return n, nil
}

func user(name, email string, role auth.Role, hash string, created time.Time) *auth.User {
	return &auth.User{
		ID:           ID("user", email),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       auth.UserStatusActive,
		CreatedAt:    created,
	}
}

func users(hash string) []*auth.User {
	return []*auth.User{
		user("Avery Admin", "admin@docflow.local", auth.RoleAdmin, hash, at(0, 0)),
		user("Elif Editor", "elif@docflow.local", auth.RoleEditor, hash, at(0, 1)),
		user("Marco Editor", "marco@docflow.local", auth.RoleEditor, hash, at(0, 2)),
		user("Vera Viewer", "vera@docflow.local", auth.RoleViewer, hash, at(0, 3)),
	}
}

func templates() []*template.Template {
	owner := ID("user", "admin@docflow.local")
	return []*template.Template{
		{
			ID: ID("template", "Expense claim"), Name: "Expense claim",
			Description: "Reimbursement of out-of-pocket expenses",
			Category:    category.Invoice, Type: template.TypeForm, Status: template.StatusActive,
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"amount":   map[string]interface{}{"type": "number", "minimum": 0},
					"currency": map[string]interface{}{"type": "string", "enum": []interface{}{"EUR", "USD", "GBP"}},
				},
				"required": []interface{}{"amount", "currency"},
			},
			CreatedBy: owner, CreatedAt: at(1, 0), UpdatedAt: at(1, 0),
		},
		{
			ID: ID("template", "Service agreement"), Name: "Service agreement",
			Category: category.Contract, Type: template.TypeContract, Status: template.StatusActive,
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"counterparty": map[string]interface{}{"type": "string", "minLength": 1},
					"term_months":  map[string]interface{}{"type": "integer", "minimum": 1},
				},
				"required": []interface{}{"counterparty"},
			},
			CreatedBy: owner, CreatedAt: at(1, 2), UpdatedAt: at(3, 0),
		},
		{
			ID: ID("template", "Quarterly report"), Name: "Quarterly report",
			Category: category.Report, Type: template.TypeReport, Status: template.StatusDraft,
			Schema:    map[string]interface{}{"type": "object"},
			CreatedBy: owner, CreatedAt: at(2, 0), UpdatedAt: at(2, 0),
		},
	}
}

func doc(name string, cat category.Category, typ document.FileType, status document.Status, owner string, size int64, created, updated time.Time) *document.Document {
	return &document.Document{
		ID:        ID("document", name),
		Name:      name,
		Category:  cat,
		Type:      typ,
		Status:    status,
		Size:      size,
		OwnerID:   ID("user", owner),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func documents() []*document.Document {
	expense := ID("template", "Expense claim")
	agreement := ID("template", "Service agreement")

	taxi := doc("Taxi receipts March", category.Invoice, document.FilePDF, document.StatusPending, "elif@docflow.local", 48_213, at(10, 0), at(11, 4))
	taxi.TemplateID = &expense
	taxi.Data = map[string]interface{}{"amount": 86.4, "currency": "EUR"}
	taxi.Tags = []string{"travel"}

	hosting := doc("Hosting agreement", category.Contract, document.FileDOCX, document.StatusApproved, "marco@docflow.local", 120_448, at(5, 0), at(9, 0))
	hosting.TemplateID = &agreement
	hosting.Data = map[string]interface{}{"counterparty": "Nimbus Hosting", "term_months": 24}

	return []*document.Document{
		taxi,
		hosting,
		doc("Annual report 2023", category.Report, document.FilePDF, document.StatusDraft, "elif@docflow.local", 2_304_112, at(3, 0), at(14, 0)),
		doc("Remote work policy", category.Policy, document.FileDOCX, document.StatusRejected, "marco@docflow.local", 64_000, at(4, 0), at(12, 0)),
		doc("Supplier letter", category.Correspondence, document.FileDOCX, document.StatusArchived, "marco@docflow.local", 18_944, at(2, 0), at(6, 0)),
		doc("Office floor plan", category.Other, document.FileImage, document.StatusDraft, "elif@docflow.local", 870_100, at(7, 0), at(7, 0)),
		doc("Budget forecast", category.Report, document.FileXLSX, document.StatusPending, "marco@docflow.local", 96_512, at(13, 0), at(13, 5)),
	}
}

func request(title string, cat approval.Category, typ approval.Type, prio approval.Priority, status approval.Status, docName, requester, approver string, created time.Time) *approval.Request {
	return &approval.Request{
		ID:          ID("approval", title),
		DocumentID:  ID("document", docName),
		Title:       title,
		Category:    cat,
		Type:        typ,
		Priority:    prio,
		Status:      status,
		RequesterID: ID("user", requester),
		ApproverID:  ID("user", approver),
		CreatedAt:   created,
	}
}

func approvals() []*approval.Request {
	taxi := request("Taxi receipts March", approval.CategoryFinance, approval.TypeReview, approval.PriorityNormal,
		approval.StatusPending, "Taxi receipts March", "elif@docflow.local", "marco@docflow.local", at(11, 4))
	due := at(18, 0)
	taxi.DueDate = &due
	taxi.Message = "Client dinner transfers included."

	budget := request("Budget forecast sign-off", approval.CategoryFinance, approval.TypeSignOff, approval.PriorityHigh,
		approval.StatusPending, "Budget forecast", "marco@docflow.local", "elif@docflow.local", at(13, 5))

	hosting := request("Hosting agreement signature", approval.CategoryLegal, approval.TypeSignature, approval.PriorityUrgent,
		approval.StatusApproved, "Hosting agreement", "marco@docflow.local", "admin@docflow.local", at(8, 0))
	signed := at(9, 0)
	hosting.DecidedAt = &signed
	hosting.Comment = "Signed."

	remote := request("Remote work policy review", approval.CategoryHR, approval.TypeReview, approval.PriorityLow,
		approval.StatusRejected, "Remote work policy", "marco@docflow.local", "elif@docflow.local", at(10, 0))
	rejected := at(12, 0)
	remote.DecidedAt = &rejected
	remote.Comment = "Needs a section on equipment."

	return []*approval.Request{taxi, budget, hosting, remote}
}
