package model

import (
	"math"
	"time"
)

type AssessmentType string

const (
	AssessmentTypeCourse     AssessmentType = "course"
	AssessmentTypeStandalone AssessmentType = "standalone"
)

// PassingScore минимальный процент для успешной сдачи
const PassingScore = 70.0

// Valid проверяет что тип теста известен
func (t AssessmentType) Valid() bool {
	return t == AssessmentTypeCourse || t == AssessmentTypeStandalone
}

// Question вопрос теста. CorrectAnswer - индекс в Options.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type Assessment struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        AssessmentType `json:"type"`
	Questions   []Question     `json:"questions"`
	IsActive    bool           `json:"isActive"`
	CourseID    *int64         `json:"courseId,omitempty"`
	CreatedBy   int64          `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PublicQuestion вопрос без правильного ответа - только он уходит клиенту
type PublicQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// PublicAssessment тест для выдачи пользователям
type PublicAssessment struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        AssessmentType   `json:"type"`
	Questions   []PublicQuestion `json:"questions"`
	CourseID    *int64           `json:"courseId,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Public убирает правильные ответы
func (a *Assessment) Public() *PublicAssessment {
	questions := make([]PublicQuestion, 0, len(a.Questions))
	for _, q := range a.Questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		questions = append(questions, PublicQuestion{Text: q.Text, Options: options})
	}

	return &PublicAssessment{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Type:        a.Type,
		Questions:   questions,
		CourseID:    a.CourseID,
		CreatedAt:   a.CreatedAt,
	}
}

// Grade считает количество совпавших ответов и процент.
// Недостающие ответы считаются неверными, лишние игнорируются.
func (a *Assessment) Grade(answers []int) (correct int, score float64, passed bool) {
	for i, q := range a.Questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}

	if len(a.Questions) == 0 {
		return 0, 0, false
	}

	raw := float64(correct) / float64(len(a.Questions)) * 100
	return correct, math.Round(raw*100) / 100, raw >= PassingScore
}

// AssessmentFilter параметры выборки тестов
type AssessmentFilter struct {
	Type       AssessmentType
	CourseID   *int64
	ActiveOnly bool
}

// AssessmentAttempt единственная попытка пользователя, после создания не меняется
type AssessmentAttempt struct {
	ID             int64          `json:"id"`
	AssessmentID   int64          `json:"assessmentId"`
	UserID         int64          `json:"userId"`
	Answers        []int          `json:"answers"`
	Score          float64        `json:"score"`
	Passed         bool           `json:"passed"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	AssessmentType AssessmentType `json:"assessmentType"`
	SubmittedAt    time.Time      `json:"submittedAt"`
}
