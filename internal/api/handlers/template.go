package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/template"
	"github.com/docflow/docflow/internal/core/validation"
)

type TemplateHandler struct {
	templateService *template.Service
	log             *zap.Logger
}

func NewTemplateHandler(templateService *template.Service, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, log: log}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req template.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templateService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, tpl)
}

func (h *TemplateHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	resp, err := h.templateService.List(c.Request.Context(), listState(c), limit, offset)
	if err != nil {
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "template")
	if !ok {
		return
	}

	tpl, err := h.templateService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "template")
	if !ok {
		return
	}

	var req template.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templateService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "template")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, template.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, template.ErrAlreadyExists), errors.Is(err, template.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case validation.IsValidationError(err):
		validationFailed(c, err)
	default:
		internalError(c, h.log, err)
	}
}
