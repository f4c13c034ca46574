package handlers

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/render"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

// ListSlots GET /mentors/availability
func (h *Handlers) ListSlots(c *gin.Context) {
	mentorID, ok := h.queryID(c, "mentorId")
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

	result, err := h.availability.ListSlots(c.Request.Context(), service.SlotQuery{
		MentorID:       mentorID,
		Specialization: c.Query("specialization"),
		SessionType:    c.Query("sessionType"),
		Date:           c.Query("date"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"slots":      result.Slots,
		"pagination": result.Pagination,
	})
}

type createSlotRequest struct {
	StartDateTime time.Time `json:"startDateTime" binding:"required"`
	EndDateTime   time.Time `json:"endDateTime" binding:"required,gtfield=StartDateTime"`
	Duration      int       `json:"duration" binding:"min=0"`
	MaxBookings   int       `json:"maxBookings" binding:"min=0,max=100"`
	Price         int64     `json:"price" binding:"min=0"`
	SessionType   string    `json:"sessionType" binding:"omitempty,oneof=video audio in_person"`
}

// CreateSlot POST /mentor/availability
func (h *Handlers) CreateSlot(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req createSlotRequest
	if !h.bindJSON(c, &req) {
		return
	}

	slot, err := h.availability.CreateSlot(c.Request.Context(), actor.UserID, service.CreateSlotInput{
		StartDateTime:   req.StartDateTime,
		EndDateTime:     req.EndDateTime,
		DurationMinutes: req.Duration,
		MaxBookings:     req.MaxBookings,
		Price:           req.Price,
		SessionType:     model.SessionType(req.SessionType),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"slot":    slot,
	})
}

// DeactivateSlot PUT /mentor/availability/:id/deactivate
func (h *Handlers) DeactivateSlot(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	slot, err := h.availability.DeactivateSlot(c.Request.Context(), actor, slotID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Slot deactivated",
		"slot":    slot,
	})
}

// MentorWeekImage GET /mentors/:id/availability/week.png?date=YYYY-MM-DD
func (h *Handlers) MentorWeekImage(c *gin.Context) {
	mentorID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	day, err := h.availability.ParseDay(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	weekStart, slots, err := h.availability.MentorWeek(c.Request.Context(), mentorID, day)
	if err != nil {
		h.respondError(c, err)
		return
	}

	png, err := render.WeekImage(weekStart, slots, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
