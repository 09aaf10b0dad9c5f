package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"targetLang" binding:"required"`
	SourceLang string `json:"sourceLang"`
}

func (h HandlerSet) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	results, err := h.translate.Translate(c.Request.Context(), []string{req.Text}, req.TargetLang, req.SourceLang)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "translated": results[0]})
}

type translateBulkRequest struct {
	Texts      []string `json:"texts" binding:"required"`
	TargetLang string   `json:"targetLang" binding:"required"`
	SourceLang string   `json:"sourceLang"`
}

func (h HandlerSet) TranslateBulk(c *gin.Context) {
	var req translateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	results, err := h.translate.Translate(c.Request.Context(), req.Texts, req.TargetLang, req.SourceLang)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "translated": results})
}

func (h HandlerSet) TranslateUsage(c *gin.Context) {
	report, err := h.translate.Usage(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"charactersUsed": report.CharactersUsed,
		"limit":          report.Limit,
		"percentUsed":    report.PercentUsed,
		"limitReached":   report.LimitReached,
	})
}
