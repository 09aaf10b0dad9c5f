package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/config"
	"pawshome/internal/security"
)

const IdentityKey = "identity"

// Session decodes the session cookie into an Identity and attaches it to the
// context. A missing or invalid cookie is a normal negative result, not an
// error: public routes keep serving, protected routes gate on RequireUser.
func Session(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity security.Identity
		if token, err := c.Cookie(cfg.Session.CookieName); err == nil {
			identity = security.VerifySessionToken(token, cfg.Session.Secret)
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if !identity.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) security.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return security.Identity{}
	}
	identity, ok := val.(security.Identity)
	if !ok {
		return security.Identity{}
	}
	return identity
}
