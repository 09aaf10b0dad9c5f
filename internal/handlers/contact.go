package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawshome/internal/models"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h HandlerSet) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	id, err := h.contact.Submit(c.Request.Context(), models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
