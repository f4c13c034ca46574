package handlers

import (
	"net/http"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

// ListAssessments GET /assessments?type&courseId
func (h *Handlers) ListAssessments(c *gin.Context) {
	courseID, ok := h.queryID(c, "courseId")
	if !ok {
		return
	}

	items, err := h.assessments.List(c.Request.Context(), c.Query("type"), courseID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assessments": items,
	})
}

// GetAssessment GET /assessments/:id
func (h *Handlers) GetAssessment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	a, err := h.assessments.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assessment": a,
	})
}

type submitAssessmentRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// SubmitAssessment POST /assessments/:id/submit
func (h *Handlers) SubmitAssessment(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req submitAssessmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.assessments.Submit(c.Request.Context(), id, actor.UserID, req.Answers)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"attemptId":      result.AttemptID,
		"score":          result.Score,
		"passed":         result.Passed,
		"totalQuestions": result.TotalQuestions,
		"correctAnswers": result.CorrectAnswers,
		"assessmentType": result.AssessmentType,
	})
}

// AssessmentResult GET /assessments/result/:id
func (h *Handlers) AssessmentResult(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	attempt, err := h.assessments.Result(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"attempt": attempt,
	})
}

// MyAttempts GET /my/assessment-attempts
func (h *Handlers) MyAttempts(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	attempts, err := h.assessments.MyAttempts(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"attempts": attempts,
	})
}

type questionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer int      `json:"correctAnswer" binding:"min=0"`
}

type assessmentRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description"`
	Type        string            `json:"type" binding:"required,oneof=course standalone"`
	Questions   []questionRequest `json:"questions" binding:"dive"`
	IsActive    *bool             `json:"isActive"`
	CourseID    *int64            `json:"courseId"`
}

func (r assessmentRequest) input() service.AssessmentInput {
	questions := make([]model.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, model.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return service.AssessmentInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        model.AssessmentType(r.Type),
		Questions:   questions,
		IsActive:    active,
		CourseID:    r.CourseID,
	}
}

// CreateAssessment POST /admin/assessments
func (h *Handlers) CreateAssessment(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req assessmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assessments.Create(c.Request.Context(), actor.UserID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assessment": a,
	})
}

// UpdateAssessment PUT /admin/assessments/:id
func (h *Handlers) UpdateAssessment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req assessmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assessments.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assessment": a,
	})
}

// DeleteAssessment DELETE /admin/assessments/:id
func (h *Handlers) DeleteAssessment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.assessments.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assessment deleted",
	})
}
