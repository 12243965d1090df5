package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/pkg/errors"
)

// respondError translates the error taxonomy into HTTP status codes:
// not found -> 404, validation and illegal transitions -> 400,
// auth -> 401/403, conflicts -> 409, everything else -> 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		resp := gin.H{"error": e.Error()}
		if len(e.Fields) > 0 {
			resp["fields"] = e.Fields
		}
		c.JSON(http.StatusBadRequest, resp)
	case *errors.ErrInvalidStateTransition:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseLimitOffset reads limit/offset query params with sane bounds
func parseLimitOffset(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
