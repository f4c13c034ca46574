package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/session"
	"go.uber.org/zap"
)

type FeedbackService struct {
	bookings BookingStore
	feedback FeedbackStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewFeedbackService(bookings BookingStore, feedback FeedbackStore, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		bookings: bookings,
		feedback: feedback,
		logger:   logger,
		now:      time.Now,
	}
}

// FeedbackInput оценка сессии от участника
type FeedbackInput struct {
	Rating  int
	Tags    []string
	Comment string
}

// Submit сохраняет оценку сессии, одну на бронирование.
// Оценить можно только начавшуюся или завершённую сессию.
func (s *FeedbackService) Submit(ctx context.Context, bookingID, userID int64, in FeedbackInput) (*model.SessionFeedback, error) {
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	fb := session.Feedback{
		Rating:  in.Rating,
		Tags:    tags,
		Comment: strings.TrimSpace(in.Comment),
	}
	if err := fb.Validate(); err != nil {
		return nil, model.ValidationError("%s", err)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil || booking.NurseID != userID {
		return nil, model.ErrBookingNotFound
	}
	if booking.IsCancelled() {
		return nil, model.ErrBookingNotActive
	}
	// Отзыв после завершения звонка: сессия уже началась или отмечена завершённой
	if booking.Status != model.BookingStatusCompleted && booking.DateTime.After(s.now()) {
		return nil, model.ErrSessionNotStarted
	}

	f := &model.SessionFeedback{
		BookingID: bookingID,
		UserID:    userID,
		Rating:    fb.Rating,
		Tags:      fb.Tags,
		Comment:   fb.Comment,
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("Session feedback received",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
		zap.Int("rating", in.Rating),
	)

	return f, nil
}
