package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pawshome/internal/middleware"
	"pawshome/internal/models"
)

func (h HandlerSet) ListLogs(c *gin.Context) {
	limit, offset := pagination(c)
	filter := models.LogFilter{
		Level:  c.Query("level"),
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: offset,
	}
	if archived := c.Query("archived"); archived != "" {
		value := archived == "true"
		filter.Archived = &value
	}
	if before := c.Query("before"); before != "" {
		if parsed, err := time.Parse(time.RFC3339, before); err == nil {
			filter.Before = &parsed
		}
	}

	entries, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, gin.H{
			"id":        entry.ID,
			"level":     entry.Level,
			"actor":     entry.Actor,
			"action":    entry.Action,
			"entity":    entry.Entity,
			"entityId":  entry.EntityID,
			"detail":    entry.Detail,
			"archived":  entry.Archived,
			"createdAt": entry.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": items})
}

func (h HandlerSet) ArchiveLogs(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	operationID, err := h.logs.StartArchive(c.Request.Context(), identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "operationId": operationID})
}

func (h HandlerSet) DeleteArchivedLogs(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	operationID, err := h.logs.StartDeleteArchived(c.Request.Context(), identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "operationId": operationID})
}

func (h HandlerSet) LogOperation(c *gin.Context) {
	job, err := h.logs.Operation(c.Request.Context(), c.Param("operationId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	body := gin.H{
		"success":  true,
		"status":   job.Status,
		"progress": job.Progress,
	}
	if job.Result != "" {
		body["result"] = job.Result
	}
	if job.Error != "" {
		body["error"] = job.Error
	}
	c.JSON(http.StatusOK, body)
}
