package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawshome/internal/middleware"
	"pawshome/internal/models"
	"pawshome/internal/service"
)

type catRequest struct {
	Name        string   `json:"name" binding:"required"`
	Breed       string   `json:"breed"`
	AgeMonths   int      `json:"ageMonths"`
	Sex         string   `json:"sex"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Featured    bool     `json:"featured"`
	PhotoIDs    []string `json:"photoIds"`
}

func (r catRequest) toInput() service.CatInput {
	return service.CatInput{
		Name:        r.Name,
		Breed:       r.Breed,
		AgeMonths:   r.AgeMonths,
		Sex:         r.Sex,
		Description: r.Description,
		Status:      r.Status,
		Featured:    r.Featured,
		PhotoIDs:    r.PhotoIDs,
	}
}

func catBody(cat models.Cat) gin.H {
	body := gin.H{
		"id":          cat.ID,
		"name":        cat.Name,
		"breed":       cat.Breed,
		"ageMonths":   cat.AgeMonths,
		"sex":         cat.Sex,
		"description": cat.Description,
		"status":      cat.Status,
		"featured":    cat.Featured,
		"photoIds":    cat.PhotoIDs,
		"deleted":     cat.Deleted,
		"locked":      cat.Locked,
		"createdAt":   cat.CreatedAt,
		"updatedAt":   cat.UpdatedAt,
	}
	if cat.Locked && cat.LockedReason != nil {
		body["lockedReason"] = *cat.LockedReason
	}
	return body
}

func (h HandlerSet) ListCats(c *gin.Context) {
	limit, offset := pagination(c)

	// Trashed records are admin-only: the public listing never sees them.
	includeTrashed := false
	if c.Query("includeTrashed") == "true" {
		identity := middleware.CurrentIdentity(c)
		includeTrashed = h.gate.IsAdmin(c.Request.Context(), identity)
	}

	cats, err := h.cats.List(c.Request.Context(), includeTrashed, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		items = append(items, catBody(cat))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cats": items})
}

func (h HandlerSet) GetCat(c *gin.Context) {
	cat, err := h.cats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cat": catBody(cat)})
}

func (h HandlerSet) CreateCat(c *gin.Context) {
	var req catRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	cat, err := h.cats.Create(c.Request.Context(), req.toInput(), identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cat": catBody(cat)})
}

func (h HandlerSet) UpdateCat(c *gin.Context) {
	var req catRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	cat, err := h.cats.Update(c.Request.Context(), c.Param("id"), req.toInput(), identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cat": catBody(cat)})
}

type catIDRequest struct {
	CatID string `json:"catId" binding:"required"`
}

func (h HandlerSet) TrashCat(c *gin.Context) {
	var req catIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.TrashCat(c.Request.Context(), req.CatID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) RestoreCat(c *gin.Context) {
	var req catIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.RestoreCat(c.Request.Context(), req.CatID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) PurgeCat(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.PurgeCat(c.Request.Context(), c.Param("id"), identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type lockCatRequest struct {
	CatID  string `json:"catId" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (h HandlerSet) LockCat(c *gin.Context) {
	var req lockCatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	cat, err := h.lifecycle.LockCat(c.Request.Context(), req.CatID, req.Reason, identity.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cat": catBody(cat)})
}

func (h HandlerSet) UnlockCat(c *gin.Context) {
	var req catIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.lifecycle.UnlockCat(c.Request.Context(), req.CatID, identity.UID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
