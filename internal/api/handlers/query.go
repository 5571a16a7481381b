package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/validation"
)

// listState reads filter and sort parameters from the query string.
// Set-valued parameters may repeat or hold comma separated values.
func listState(c *gin.Context) listing.State {
	crit := listing.Criteria{}
	crit = listing.SetField(crit, listing.FieldSearch, c.Query("q"))
	crit = listing.SetField(crit, listing.FieldCategories, listing.SplitValues(c.QueryArray("category"))...)
	crit = listing.SetField(crit, listing.FieldStatuses, listing.SplitValues(c.QueryArray("status"))...)
	crit = listing.SetField(crit, listing.FieldTypes, listing.SplitValues(c.QueryArray("type"))...)
	crit = listing.SetField(crit, listing.FieldFrom, c.Query("from"))
	crit = listing.SetField(crit, listing.FieldTo, c.Query("to"))

	return listing.State{Criteria: crit, Sort: listing.ParseSortKey(c.Query("sort"))}
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(listing.DefaultLimit)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return listing.NormalizeLimit(limit), max(offset, 0)
}

func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": validation.GetValidationErrors(err)})
}

func internalError(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)
	log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}
