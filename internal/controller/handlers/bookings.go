package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type bookSlotRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// BookSlot POST /mentors/availability/:slotId/book
func (h *Handlers) BookSlot(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "slotId")
	if !ok {
		return
	}

	var req bookSlotRequest
	// Тело необязательно
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.BookSlot(c.Request.Context(), slotID, actor.UserID, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Session booked successfully",
		"booking": booking,
	})
}

// MyBookings GET /my/mentor-bookings?status&upcoming
func (h *Handlers) MyBookings(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	upcoming, ok := h.queryBool(c, "upcoming")
	if !ok {
		return
	}

	bookings, err := h.bookings.GetUserBookings(c.Request.Context(), actor.UserID, c.Query("status"), upcoming)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
	})
}

// MentorBookings GET /mentor/bookings?status&upcoming
func (h *Handlers) MentorBookings(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	upcoming, ok := h.queryBool(c, "upcoming")
	if !ok {
		return
	}

	bookings, err := h.bookings.GetMentorBookings(c.Request.Context(), actor.UserID, c.Query("status"), upcoming)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
	})
}

// CancelBooking PUT /my/mentor-bookings/:bookingId/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	bookingID, ok := h.pathID(c, "bookingId")
	if !ok {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), bookingID, actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}

// CompleteBooking PUT /admin/mentor-bookings/:id/complete
func (h *Handlers) CompleteBooking(c *gin.Context) {
	bookingID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.CompleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking completed",
		"booking": booking,
	})
}
