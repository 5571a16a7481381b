package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/approval"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/validation"
)

type ApprovalHandler struct {
	approvalService *approval.Service
	log             *zap.Logger
}

func NewApprovalHandler(approvalService *approval.Service, log *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, log: log}
}

func (h *ApprovalHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req approval.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.approvalService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

func (h *ApprovalHandler) ListSent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	limit, offset := pageParams(c)

	resp, err := h.approvalService.ListSent(c.Request.Context(), userID, listState(c), limit, offset)
	if err != nil {
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApprovalHandler) ListReceived(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	limit, offset := pageParams(c)

	resp, err := h.approvalService.ListReceived(c.Request.Context(), userID, listState(c), limit, offset)
	if err != nil {
		internalError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApprovalHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := paramID(c, "id", "approval")
	if !ok {
		return
	}

	r, err := h.approvalService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, approval.DecisionApprove)
}

func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, approval.DecisionReject)
}

func (h *ApprovalHandler) decide(c *gin.Context, decision approval.Decision) {
	userID, _ := middleware.GetUserID(c)
	id, ok := paramID(c, "id", "approval")
	if !ok {
		return
	}

	// the comment is optional, so is the body
	var req approval.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.approvalService.Decide(c.Request.Context(), userID, id, decision, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *ApprovalHandler) Cancel(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := paramID(c, "id", "approval")
	if !ok {
		return
	}

	r, err := h.approvalService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *ApprovalHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, approval.ErrNotFound),
		errors.Is(err, approval.ErrDocumentNotFound),
		errors.Is(err, approval.ErrApproverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrForbidden), errors.Is(err, approval.ErrNotDocumentOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrSelfApproval):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrAlreadyRequested),
		errors.Is(err, approval.ErrNotPending),
		errors.Is(err, document.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case validation.IsValidationError(err):
		validationFailed(c, err)
	default:
		internalError(c, h.log, err)
	}
}
