package approval

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/core/listing"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type Category string

const (
	CategoryFinance     Category = "finance"
	CategoryHR          Category = "hr"
	CategoryLegal       Category = "legal"
	CategoryProcurement Category = "procurement"
	CategoryGeneral     Category = "general"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFinance, CategoryHR, CategoryLegal, CategoryProcurement, CategoryGeneral:
		return true
	}
	return false
}

type Type string

const (
	TypeReview    Type = "review"
	TypeSignature Type = "signature"
	TypeSignOff   Type = "sign-off"
)

func (t Type) Valid() bool {
	return t == TypeReview || t == TypeSignature || t == TypeSignOff
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Request asks one approver to sign off one document.
type Request struct {
	ID          uuid.UUID  `json:"id"`
	DocumentID  uuid.UUID  `json:"document_id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	Type        Type       `json:"type"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	RequesterID uuid.UUID  `json:"requester_id"`
	ApproverID  uuid.UUID  `json:"approver_id"`
	Message     string     `json:"message,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

func (r *Request) DisplayName() string  { return r.Title }
func (r *Request) Timestamp() time.Time { return r.CreatedAt }

func (r *Request) Attr(d listing.Dimension) string {
	switch d {
	case listing.DimCategory:
		return string(r.Category)
	case listing.DimStatus:
		return string(r.Status)
	case listing.DimType:
		return string(r.Type)
	}
	return ""
}

// Overdue reports whether a pending request is past its due date.
func (r *Request) Overdue(now time.Time) bool {
	return r.Status == StatusPending && r.DueDate != nil && now.After(*r.DueDate)
}

type CreateRequest struct {
	DocumentID uuid.UUID  `json:"document_id" binding:"required"`
	ApproverID uuid.UUID  `json:"approver_id" binding:"required"`
	Title      string     `json:"title"`
	Category   string     `json:"category" binding:"required"`
	Type       string     `json:"type"`
	Priority   string     `json:"priority"`
	Message    string     `json:"message"`
	DueDate    *time.Time `json:"due_date"`
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type ListRequestsResponse = listing.Result[*Request]
