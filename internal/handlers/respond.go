package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/service"
)

// fail translates the service failure taxonomy into HTTP. Unknown errors are
// logged with detail and surfaced as a generic 500.
func (h HandlerSet) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
	case errors.Is(err, service.ErrLockedConflict):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "resource_locked", "locked": true})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found"})
	case errors.Is(err, service.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "upstream_failed"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal_error"})
	}
}
