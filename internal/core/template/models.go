package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/core/category"
	"github.com/docflow/docflow/internal/core/listing"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDraft || s == StatusArchived
}

type Type string

const (
	TypeForm     Type = "form"
	TypeLetter   Type = "letter"
	TypeContract Type = "contract"
	TypeReport   Type = "report"
)

func (t Type) Valid() bool {
	switch t {
	case TypeForm, TypeLetter, TypeContract, TypeReport:
		return true
	}
	return false
}

type Template struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Category    category.Category      `json:"category"`
	Type        Type                   `json:"type"`
	Status      Status                 `json:"status"`
	Schema      map[string]interface{} `json:"schema"`
	CreatedBy   uuid.UUID              `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func (t *Template) DisplayName() string  { return t.Name }
func (t *Template) Timestamp() time.Time { return t.UpdatedAt }

func (t *Template) Attr(d listing.Dimension) string {
	switch d {
	case listing.DimCategory:
		return string(t.Category)
	case listing.DimStatus:
		return string(t.Status)
	case listing.DimType:
		return string(t.Type)
	}
	return ""
}

type CreateTemplateRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Category    string                 `json:"category" binding:"required"`
	Type        string                 `json:"type" binding:"required"`
	Status      string                 `json:"status"`
	Schema      map[string]interface{} `json:"schema"`
}

type UpdateTemplateRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	Schema      map[string]interface{} `json:"schema"`
}

type ListTemplatesResponse = listing.Result[*Template]
