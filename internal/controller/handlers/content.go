package handlers

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

// ListContent GET /content?kind&status&page&limit
func (h *Handlers) ListContent(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	page, ok := h.queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := h.queryInt(c, "limit")
	if !ok {
		return
	}

	result, err := h.content.List(c.Request.Context(), actor, c.Query("kind"), c.Query("status"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// GetContent GET /content/:id
func (h *Handlers) GetContent(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.content.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

type contentRequest struct {
	Kind       string     `json:"kind" binding:"required,oneof=news event workshop session"`
	Title      string     `json:"title" binding:"required,max=300"`
	Body       string     `json:"body"`
	Slug       *string    `json:"slug" binding:"omitempty,slug"`
	WorkshopID *int64     `json:"workshopId"`
	StartsAt   *time.Time `json:"startsAt"`
	EndsAt     *time.Time `json:"endsAt"`
	Status     string     `json:"status" binding:"omitempty,oneof=draft published archived"`
}

func (r contentRequest) input() service.ContentInput {
	return service.ContentInput{
		Kind:       model.ContentKind(r.Kind),
		Title:      r.Title,
		Body:       r.Body,
		Slug:       r.Slug,
		WorkshopID: r.WorkshopID,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
		Status:     model.PublishStatus(r.Status),
	}
}

// CreateContent POST /admin/content
func (h *Handlers) CreateContent(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req contentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.content.Create(c.Request.Context(), actor.UserID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"item":    item,
	})
}

// UpdateContent PUT /admin/content/:id
func (h *Handlers) UpdateContent(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req contentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.content.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

type contentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published archived"`
	Force  bool   `json:"force"`
}

// SetContentStatus PUT /admin/content/:id/status
func (h *Handlers) SetContentStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req contentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.content.SetStatus(c.Request.Context(), id, model.PublishStatus(req.Status), req.Force)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

// DeleteContent DELETE /admin/content/:id
func (h *Handlers) DeleteContent(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.content.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Content deleted",
	})
}
