package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/listing"
)

type AuthHandler struct {
	authService *auth.Service
	views       *listing.Store
	log         *zap.Logger
}

func NewAuthHandler(authService *auth.Service, views *listing.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, views: views, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already Exist"})
			return
		}
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout forgets every list view the session had open.
func (h *AuthHandler) Logout(c *gin.Context) {
	dropped := h.views.Drop(middleware.GetSession(c))
	c.JSON(http.StatusOK, gin.H{"views_dropped": dropped})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "permissions": middleware.GetPermissions(c)})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *AuthHandler) SetRole(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	targetID, ok := paramID(c, "userId", "user")
	if !ok {
		return
	}

	var req auth.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.SetRole(c.Request.Context(), actorID, targetID, auth.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, auth.ErrLastAdmin):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			internalError(c, h.log, err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
