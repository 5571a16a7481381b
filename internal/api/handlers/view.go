package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/approval"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/template"
)

// lister loads one page of a view for a user.
type lister func(ctx context.Context, userID uuid.UUID, st listing.State, limit, offset int) (any, error)

type viewDef struct {
	permission string
	items      lister
}

// ViewHandler keeps per-session filter and sort state for each list view,
// so that tabs like requests/sent and requests/received filter independently.
type ViewHandler struct {
	store *listing.Store
	views map[string]map[string]viewDef
	log   *zap.Logger
}

func NewViewHandler(store *listing.Store, documents *document.Service, templates *template.Service, approvals *approval.Service, log *zap.Logger) *ViewHandler {
	return &ViewHandler{
		store: store,
		log:   log,
		views: map[string]map[string]viewDef{
			"documents": {
				"all": {auth.PermDocumentRead, func(ctx context.Context, _ uuid.UUID, st listing.State, limit, offset int) (any, error) {
					return documents.List(ctx, st, limit, offset)
				}},
			},
			"templates": {
				"all": {auth.PermTemplateRead, func(ctx context.Context, _ uuid.UUID, st listing.State, limit, offset int) (any, error) {
					return templates.List(ctx, st, limit, offset)
				}},
			},
			"requests": {
				"sent": {auth.PermApprovalRead, func(ctx context.Context, userID uuid.UUID, st listing.State, limit, offset int) (any, error) {
					return approvals.ListSent(ctx, userID, st, limit, offset)
				}},
				"received": {auth.PermApprovalRead, func(ctx context.Context, userID uuid.UUID, st listing.State, limit, offset int) (any, error) {
					return approvals.ListReceived(ctx, userID, st, limit, offset)
				}},
			},
		},
	}
}

type fieldRequest struct {
	Field  string   `json:"field" binding:"required"`
	Values []string `json:"values"`
}

// resolve checks the view exists and the caller may read it.
func (h *ViewHandler) resolve(c *gin.Context) (listing.ViewKey, viewDef, bool) {
	view, partition := c.Param("view"), c.Param("partition")
	def, ok := h.views[view][partition]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view " + view + "/" + partition})
		return listing.ViewKey{}, viewDef{}, false
	}
	if !middleware.HasPermission(c, def.permission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return listing.ViewKey{}, viewDef{}, false
	}
	return listing.ViewKey{Session: middleware.GetSession(c), View: view, Partition: partition}, def, true
}

func (h *ViewHandler) Get(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.Get(key))
}

// Put replaces the whole state. Unknown sort keys fall back to the default.
func (h *ViewHandler) Put(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}

	var st listing.State
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st.Sort = listing.ParseSortKey(string(st.Sort))

	c.JSON(http.StatusOK, h.store.Put(key, st))
}

// SetField replaces one criteria field, or the sort key when field is "sort".
func (h *ViewHandler) SetField(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var update func(listing.State) listing.State
	switch field := listing.Field(req.Field); {
	case req.Field == "sort":
		update = func(st listing.State) listing.State {
			st.Sort = listing.ParseSortKey(first(req.Values))
			return st
		}
	case field.Valid():
		update = func(st listing.State) listing.State {
			st.Criteria = listing.SetField(st.Criteria, field, req.Values...)
			return st
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field " + req.Field})
		return
	}

	c.JSON(http.StatusOK, h.store.Update(key, update))
}

// RemoveValue takes ?field=&value= and drops that value, or clears a scalar field.
func (h *ViewHandler) RemoveValue(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}

	field := listing.Field(c.Query("field"))
	if !field.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field " + string(field)})
		return
	}
	value := c.Query("value")

	st := h.store.Update(key, func(st listing.State) listing.State {
		st.Criteria = listing.RemoveValue(st.Criteria, field, value)
		return st
	})
	c.JSON(http.StatusOK, st)
}

// Reset clears the criteria and keeps the chosen sort.
func (h *ViewHandler) Reset(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}

	st := h.store.Update(key, func(st listing.State) listing.State {
		st.Criteria = listing.Reset()
		return st
	})
	c.JSON(http.StatusOK, st)
}

// Close forgets the view entirely, as when it is unmounted.
func (h *ViewHandler) Close(c *gin.Context) {
	key, _, ok := h.resolve(c)
	if !ok {
		return
	}
	h.store.Reset(key)
	c.Status(http.StatusNoContent)
}

func (h *ViewHandler) Items(c *gin.Context) {
	key, def, ok := h.resolve(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	limit, offset := pageParams(c)

	resp, err := def.items(c.Request.Context(), userID, h.store.Get(key), limit, offset)
	if err != nil {
		internalError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
