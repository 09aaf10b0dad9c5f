package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/security"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, identity security.Identity) bool
}

func RequireAdmin(gate AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if !identity.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		if !gate.IsAdmin(c.Request.Context(), identity) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}
