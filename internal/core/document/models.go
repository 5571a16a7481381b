package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/core/category"
	"github.com/docflow/docflow/internal/core/listing"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

var Statuses = []Status{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusArchived}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// FileType is the format of the stored file.
type FileType string

const (
	FilePDF   FileType = "pdf"
	FileDOCX  FileType = "docx"
	FileXLSX  FileType = "xlsx"
	FilePPTX  FileType = "pptx"
	FileImage FileType = "image"
	FileOther FileType = "other"
)

func (t FileType) Valid() bool {
	switch t {
	case FilePDF, FileDOCX, FileXLSX, FilePPTX, FileImage, FileOther:
		return true
	}
	return false
}

type Document struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Category   category.Category      `json:"category"`
	Type       FileType               `json:"type"`
	Status     Status                 `json:"status"`
	Size       int64                  `json:"size"`
	TemplateID *uuid.UUID             `json:"template_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Tags       []string               `json:"tags,omitempty"`
	OwnerID    uuid.UUID              `json:"owner_id"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func (d *Document) DisplayName() string  { return d.Name }
func (d *Document) Timestamp() time.Time { return d.UpdatedAt }

func (d *Document) Attr(dim listing.Dimension) string {
	switch dim {
	case listing.DimCategory:
		return string(d.Category)
	case listing.DimStatus:
		return string(d.Status)
	case listing.DimType:
		return string(d.Type)
	}
	return ""
}

type CreateDocumentRequest struct {
	Name       string                 `json:"name" binding:"required"`
	Category   string                 `json:"category" binding:"required"`
	Type       string                 `json:"type" binding:"required"`
	Size       int64                  `json:"size" binding:"gte=0"`
	TemplateID *uuid.UUID             `json:"template_id"`
	Data       map[string]interface{} `json:"data"`
	Tags       []string               `json:"tags"`
}

type UpdateDocumentRequest struct {
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Data     map[string]interface{} `json:"data"`
	Tags     []string               `json:"tags"`
}

type ListDocumentsResponse = listing.Result[*Document]
