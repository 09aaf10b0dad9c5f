package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/middleware"
	"pawshome/internal/models"
	"pawshome/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":          result.User.ID,
			"email":       result.User.Email,
			"displayName": result.User.DisplayName,
			"isAdmin":     result.User.IsAdmin,
		},
	})
}

type createSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h HandlerSet) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	result, err := h.sessions.CreateSession(c.Request.Context(), req.Token, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Logout(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity.Authenticated {
		if err := h.sessions.Logout(c.Request.Context(), identity.SessionID); err != nil {
			h.log.Warn().Err(err).Str("session_id", identity.SessionID).Msg("session delete failed")
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	// The cookie alone is not enough: a session deleted by logout or the
	// expiry sweep is gone even if the token has not expired yet.
	if !h.sessions.ValidateSession(c.Request.Context(), identity.SessionID, c.ClientIP(), c.GetHeader("User-Agent")) {
		h.clearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"uid":     identity.UID,
			"email":   identity.Email,
			"isAdmin": h.gate.IsAdmin(c.Request.Context(), identity),
		},
	})
}

type setAdminRequest struct {
	UID   string `json:"uid" binding:"required"`
	Admin *bool  `json:"admin" binding:"required"`
}

func (h HandlerSet) SetAdmin(c *gin.Context) {
	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.sessions.SetAdmin(c.Request.Context(), req.UID, *req.Admin, identity.UID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	user, err := h.sessions.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Admin:       req.Admin,
	}, identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"isAdmin":     user.IsAdmin,
		},
	})
}

type setUserStatusRequest struct {
	UID    string `json:"uid" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) SetUserStatus(c *gin.Context) {
	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.sessions.SetUserStatus(c.Request.Context(), req.UID, models.UserStatus(req.Status), identity.UID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.sessions.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, user := range users {
		items = append(items, gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"isAdmin":     user.IsAdmin,
			"status":      user.Status,
			"createdAt":   user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": items})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		token,
		int(h.cfg.Session.TTL.Seconds()),
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		"",
		-1,
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}
