package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/core/auth"
)

const (
	ContextUserID      = "user_id"
	ContextRole        = "role"
	ContextSession     = "session"
	ContextPermissions = "permissions"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := m.authService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// role and status are read from storage so demotions and disabled
		// accounts apply to tokens already issued
		user, err := m.authService.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		if user.Status != auth.UserStatusActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account disabled"})
			return
		}

		// tokens minted before session ids existed fall back to one session per user
		session := claims.ID
		if session == "" {
			session = user.ID.String()
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)
		c.Set(ContextSession, session)
		c.Set(ContextPermissions, auth.Permissions(user.Role))
		c.Next()
	}
}

func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextPermissions); !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no permissions found"})
			return
		}
		if !HasPermission(c, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// Helper functions to get context values
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetRole(c *gin.Context) auth.Role {
	val, exists := c.Get(ContextRole)
	if !exists {
		return ""
	}
	role, _ := val.(auth.Role)
	return role
}

func GetSession(c *gin.Context) string {
	return c.GetString(ContextSession)
}

func GetPermissions(c *gin.Context) []string {
	val, exists := c.Get(ContextPermissions)
	if !exists {
		return nil
	}
	if perms, ok := val.([]string); ok {
		return perms
	}
	return nil
}

func HasPermission(c *gin.Context, permission string) bool {
	return slices.Contains(GetPermissions(c), permission)
}
