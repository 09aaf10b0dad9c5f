package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/middleware"
	"pawshome/internal/models"
	"pawshome/internal/service"
)

func mediaBody(item models.MediaItem, url string) gin.H {
	body := gin.H{
		"id":         item.ID,
		"fileName":   item.FileName,
		"format":     item.Format,
		"sizeBytes":  item.SizeBytes,
		"uploadedBy": item.UploadedBy,
		"deleted":    item.Deleted,
		"locked":     item.Locked,
		"createdAt":  item.CreatedAt,
		"updatedAt":  item.UpdatedAt,
	}
	if url != "" {
		body["url"] = url
	}
	if item.Locked && item.LockedReason != nil {
		body["lockedReason"] = *item.LockedReason
	}
	return body
}

func (h HandlerSet) ListMedia(c *gin.Context) {
	limit, offset := pagination(c)
	includeTrashed := c.Query("includeTrashed") == "true"

	items, err := h.media.List(c.Request.Context(), includeTrashed, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, mediaBody(item, ""))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "media": out})
}

func (h HandlerSet) MediaStats(c *gin.Context) {
	stats, err := h.media.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"total":        stats.Total,
		"totalBytes":   stats.TotalBytes,
		"trashedCount": stats.TrashedCount,
		"lockedCount":  stats.LockedCount,
	})
}

func (h HandlerSet) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file_required"})
		return
	}
	defer file.Close()

	identity := middleware.CurrentIdentity(c)
	result, err := h.uploads.Upload(c.Request.Context(), service.UploadInput{
		Actor:    identity.UID,
		File:     file,
		Header:   header,
		FileName: c.PostForm("fileName"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "media": mediaBody(result.Item, result.URL)})
}

type validateMediaRequest struct {
	MediaIDs []string `json:"mediaIds" binding:"required"`
}

func (h HandlerSet) ValidateMedia(c *gin.Context) {
	var req validateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	found, err := h.uploads.Validate(c.Request.Context(), req.MediaIDs)
	if err != nil {
		h.fail(c, err)
		return
	}

	var missing []string
	for id, exists := range found {
		if !exists {
			missing = append(missing, id)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "missing": missing})
}

type mediaIDRequest struct {
	MediaID string `json:"mediaId" binding:"required"`
}

func (h HandlerSet) TrashMedia(c *gin.Context) {
	var req mediaIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.TrashMedia(c.Request.Context(), req.MediaID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) RestoreMedia(c *gin.Context) {
	var req mediaIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.RestoreMedia(c.Request.Context(), req.MediaID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) PurgeMedia(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.PurgeMedia(c.Request.Context(), c.Param("id"), identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type lockMediaRequest struct {
	MediaID string `json:"mediaId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

func (h HandlerSet) LockMedia(c *gin.Context) {
	var req lockMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	item, err := h.lifecycle.LockMedia(c.Request.Context(), req.MediaID, req.Reason, identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "media": mediaBody(item, "")})
}

func (h HandlerSet) UnlockMedia(c *gin.Context) {
	var req mediaIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.UnlockMedia(c.Request.Context(), req.MediaID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
