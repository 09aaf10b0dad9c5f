package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/middleware"
)

func (h HandlerSet) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

type updateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

func (h HandlerSet) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Settings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	for key, value := range req.Settings {
		if err := h.settings.Set(c.Request.Context(), key, value); err != nil {
			h.fail(c, err)
			return
		}
	}

	identity := middleware.CurrentIdentity(c)
	h.logs.Record(c.Request.Context(), identity.UID, "update", "settings", "", "")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
