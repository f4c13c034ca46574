package handlers

import (
	"net/http"

	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

type feedbackRequest struct {
	Rating  int      `json:"rating" binding:"required,min=1,max=5"`
	Tags    []string `json:"tags" binding:"max=10,dive,max=32"`
	Comment string   `json:"comment" binding:"max=2000"`
}

// SubmitFeedback POST /sessions/:bookingId/feedback
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	bookingID, ok := h.pathID(c, "bookingId")
	if !ok {
		return
	}

	var req feedbackRequest
	if !h.bindJSON(c, &req) {
		return
	}

	f, err := h.feedback.Submit(c.Request.Context(), bookingID, actor.UserID, service.FeedbackInput{
		Rating:  req.Rating,
		Tags:    req.Tags,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Thank you for your feedback",
		"feedback": f,
	})
}
