package handlers

import (
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости HTTP обработчиков
type Handlers struct {
	users        *service.UserService
	availability *service.AvailabilityService
	bookings     *service.BookingService
	payments     *service.PaymentService
	assessments  *service.AssessmentService
	content      *service.ContentService
	feedback     *service.FeedbackService
	uploads      UploadConfig
	location     *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// Services набор сервисов для обработчиков
type Services struct {
	Users        *service.UserService
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Payments     *service.PaymentService
	Assessments  *service.AssessmentService
	Content      *service.ContentService
	Feedback     *service.FeedbackService
}

// UploadConfig куда и какого размера принимаются файлы
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// NewHandlers создаёт обработчики
func NewHandlers(s Services, uploads UploadConfig, location *time.Location, logger *zap.Logger) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		users:        s.Users,
		availability: s.Availability,
		bookings:     s.Bookings,
		payments:     s.Payments,
		assessments:  s.Assessments,
		content:      s.Content,
		feedback:     s.Feedback,
		uploads:      uploads,
		location:     location,
		logger:       logger,
		now:          time.Now,
	}
}
