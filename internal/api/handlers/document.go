package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/validation"
)

type DocumentHandler struct {
	documentService *document.Service
	log             *zap.Logger
}

func NewDocumentHandler(documentService *document.Service, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, log: log}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req document.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	resp, err := h.documentService.List(c.Request.Context(), listState(c), limit, offset)
	if err != nil {
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "document")
	if !ok {
		return
	}

	var req document.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), actor(c), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Archive(c *gin.Context) {
	id, ok := paramID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.Archive(c.Request.Context(), actor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// actor describes the caller for ownership checks.
func actor(c *gin.Context) document.Actor {
	userID, _ := middleware.GetUserID(c)
	return document.Actor{UserID: userID, Admin: middleware.GetRole(c) == auth.RoleAdmin}
}

func (h *DocumentHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound), errors.Is(err, document.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrTemplateNotActive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrArchived),
		errors.Is(err, document.ErrPendingApproval),
		errors.Is(err, document.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case validation.IsValidationError(err):
		validationFailed(c, err)
	default:
		internalError(c, h.log, err)
	}
}
