package auth

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleViewer
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Request/Response types
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Permission constants
const (
	PermDocumentRead   = "document:read"
	PermDocumentWrite  = "document:write"
	PermDocumentDelete = "document:delete"
	PermTemplateRead   = "template:read"
	PermTemplateWrite  = "template:write"
	PermTemplateDelete = "template:delete"
	PermApprovalRead   = "approval:read"
	PermApprovalWrite  = "approval:write"
	PermApprovalDecide = "approval:decide"
	PermUserManage     = "user:manage"
)

var AllPermissions = []string{
	PermDocumentRead, PermDocumentWrite, PermDocumentDelete,
	PermTemplateRead, PermTemplateWrite, PermTemplateDelete,
	PermApprovalRead, PermApprovalWrite, PermApprovalDecide,
	PermUserManage,
}

var AdminPermissions = append([]string{}, AllPermissions...)

var EditorPermissions = []string{
	PermDocumentRead, PermDocumentWrite, PermDocumentDelete,
	PermTemplateRead, PermTemplateWrite,
	PermApprovalRead, PermApprovalWrite, PermApprovalDecide,
}

var ViewerPermissions = []string{
	PermDocumentRead,
	PermTemplateRead,
	PermApprovalRead,
}

// Permissions returns a copy of the permission set granted to a role.
func Permissions(role Role) []string {
	var perms []string
	switch role {
	case RoleAdmin:
		perms = AdminPermissions
	case RoleEditor:
		perms = EditorPermissions
	case RoleViewer:
		perms = ViewerPermissions
	}
	return append([]string(nil), perms...)
}
