package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxNotesLength = 1000

type BookingService struct {
	slots          AvailabilityStore
	bookings       BookingStore
	users          UserStore
	notifier       Notifier
	meetingBaseURL string
	logger         *zap.Logger
	now            func() time.Time
}

func NewBookingService(
	slots AvailabilityStore,
	bookings BookingStore,
	users UserStore,
	notifier Notifier,
	meetingBaseURL string,
	logger *zap.Logger,
) *BookingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &BookingService{
		slots:          slots,
		bookings:       bookings,
		users:          users,
		notifier:       notifier,
		meetingBaseURL: strings.TrimRight(meetingBaseURL, "/"),
		logger:         logger,
		now:            time.Now,
	}
}

// BookSlot бронирует место в слоте для пользователя
func (s *BookingService) BookSlot(ctx context.Context, slotID, userID int64, notes string) (*model.Booking, error) {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return nil, model.ValidationError("notes must be at most %d characters", maxNotesLength)
	}

	now := s.now()

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}

	// Быстрые проверки до транзакции. Окончательное решение принимает Reserve.
	if err := slot.CheckBookable(now); err != nil {
		return nil, err
	}

	exists, err := s.bookings.ExistsActive(ctx, slotID, userID)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if exists {
		return nil, model.ErrAlreadyBooked
	}

	booking := &model.Booking{
		NurseID:        userID,
		AvailabilityID: slotID,
		Status:         model.BookingStatusConfirmed,
		Notes:          notes,
		MeetingLink:    s.meetingLink(),
	}

	if err := s.bookings.Reserve(ctx, booking, now); err != nil {
		return nil, err
	}

	mentor, err := s.users.GetByID(ctx, booking.MentorID)
	if err != nil {
		// Бронирование уже создано, ментор нужен только для ответа и уведомления
		s.logger.Error("Failed to load mentor for booking",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
	}
	booking.Mentor = mentor

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slotID),
		zap.Int64("nurse_id", userID),
		zap.Int64("mentor_id", booking.MentorID),
	)

	if mentor != nil {
		s.notifier.BookingCreated(ctx, booking, mentor)
	}

	return booking, nil
}

// CancelBooking отменяет бронирование пользователя
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	// Чужое бронирование для пользователя не существует
	if booking == nil || booking.NurseID != userID {
		return nil, model.ErrBookingNotFound
	}

	now := s.now()
	if err := booking.CheckCancellable(now); err != nil {
		return nil, err
	}

	if err := s.bookings.Cancel(ctx, bookingID, now); err != nil {
		return nil, err
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("nurse_id", userID),
		zap.Duration("time_to_session", booking.DateTime.Sub(now)),
	)

	mentor, err := s.users.GetByID(ctx, booking.MentorID)
	if err != nil {
		s.logger.Error("Failed to load mentor for cancelled booking",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
	}
	if mentor != nil {
		booking.Mentor = mentor
		s.notifier.BookingCancelled(ctx, booking, mentor)
	}

	return booking, nil
}

// CompleteBooking переводит подтверждённое бронирование в completed
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrBookingNotFound
	}
	if !model.CanTransition(booking.Status, model.BookingStatusCompleted) {
		return nil, model.ErrStatusTransition
	}

	if err := s.bookings.Complete(ctx, bookingID); err != nil {
		return nil, err
	}
	booking.Status = model.BookingStatusCompleted
	booking.UpdatedAt = s.now()

	s.logger.Info("Booking completed", zap.Int64("booking_id", bookingID))

	return booking, nil
}

// GetBooking получает бронирование участника (медсестры или ментора)
func (s *BookingService) GetBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrBookingNotFound
	}
	if booking.NurseID != actor.UserID && booking.MentorID != actor.UserID && !actor.IsAdmin() {
		return nil, model.ErrBookingNotFound
	}
	return booking, nil
}

// GetUserBookings получает бронирования медсестры
func (s *BookingService) GetUserBookings(ctx context.Context, userID int64, status string, upcoming bool) ([]*model.Booking, error) {
	filter, err := s.bookingFilter(status, upcoming)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByNurse(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

// GetMentorBookings получает бронирования к ментору
func (s *BookingService) GetMentorBookings(ctx context.Context, mentorID int64, status string, upcoming bool) ([]*model.Booking, error) {
	filter, err := s.bookingFilter(status, upcoming)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByMentor(ctx, mentorID, filter)
	if err != nil {
		return nil, fmt.Errorf("list mentor bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) bookingFilter(status string, upcoming bool) (model.BookingFilter, error) {
	filter := model.BookingFilter{
		Status:   model.BookingStatus(status),
		Upcoming: upcoming,
		Now:      s.now(),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, model.ValidationError("unknown booking status %q", status)
	}
	return filter, nil
}

func (s *BookingService) meetingLink() string {
	return s.meetingBaseURL + "/" + uuid.NewString()
}
