package handlers

import (
	"net/http"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

// GetMe GET /me
func (h *Handlers) GetMe(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	user, err := h.users.GetMe(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

type registerUserRequest struct {
	FullName       string `json:"fullName" binding:"required,max=200"`
	Email          string `json:"email" binding:"required,email"`
	Role           string `json:"role" binding:"omitempty,oneof=nurse mentor admin"`
	Specialization string `json:"specialization" binding:"max=200"`
	TelegramChatID *int64 `json:"telegramChatId"`
}

// RegisterUser POST /admin/users
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.RegisterUser(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           model.Role(req.Role),
		Specialization: req.Specialization,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}
