package memory

import (
	"context"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type BookingRepository struct {
	st *state
}

// Reserve атомарно (под одной блокировкой) проверяет слот, занимает место и создаёт бронирование
func (r *BookingRepository) Reserve(_ context.Context, booking *model.Booking, now time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	slot, ok := r.st.slots[booking.AvailabilityID]
	if !ok {
		return model.ErrSlotNotFound
	}
	if err := slot.CheckBookable(now); err != nil {
		return err
	}
	for _, b := range r.st.bookings {
		if b.AvailabilityID == slot.ID && b.NurseID == booking.NurseID && !b.IsCancelled() {
			return model.ErrAlreadyBooked
		}
	}

	ts := timeNow()
	slot.CurrentBookings++
	slot.UpdatedAt = ts

	booking.ID = r.st.id()
	booking.MentorID = slot.MentorID
	booking.DateTime = slot.StartDateTime
	booking.DurationMinutes = slot.DurationMinutes
	booking.SessionType = slot.SessionType
	booking.Price = slot.Price
	booking.CreatedAt = ts
	booking.UpdatedAt = ts

	cp := *booking
	cp.Mentor = nil
	r.st.bookings[booking.ID] = &cp
	return nil
}

// Cancel отменяет бронирование и освобождает место (счётчик не уходит ниже нуля)
func (r *BookingRepository) Cancel(_ context.Context, bookingID int64, now time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return model.ErrBookingNotFound
	}
	if b.IsCancelled() {
		return model.ErrBookingAlreadyCancelled
	}
	if b.Status != model.BookingStatusPending && b.Status != model.BookingStatusConfirmed {
		return model.ErrBookingNotActive
	}

	cancelledAt := now
	b.Status = model.BookingStatusCancelled
	b.CancelledAt = &cancelledAt
	b.UpdatedAt = timeNow()

	if slot, ok := r.st.slots[b.AvailabilityID]; ok && slot.CurrentBookings > 0 {
		slot.CurrentBookings--
		slot.UpdatedAt = b.UpdatedAt
	}
	return nil
}

// Complete confirmed -> completed
func (r *BookingRepository) Complete(_ context.Context, bookingID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok || b.Status != model.BookingStatusConfirmed {
		return model.ErrStatusTransition
	}
	b.Status = model.BookingStatusCompleted
	b.UpdatedAt = timeNow()
	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// ExistsActive есть ли неотменённое бронирование слота у пользователя
func (r *BookingRepository) ExistsActive(_ context.Context, slotID, nurseID int64) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, b := range r.st.bookings {
		if b.AvailabilityID == slotID && b.NurseID == nurseID && !b.IsCancelled() {
			return true, nil
		}
	}
	return false, nil
}

// ListByNurse бронирования пользователя
func (r *BookingRepository) ListByNurse(_ context.Context, nurseID int64, filter model.BookingFilter) ([]*model.Booking, error) {
	return r.list(func(b *model.Booking) bool { return b.NurseID == nurseID }, filter), nil
}

// ListByMentor бронирования к ментору
func (r *BookingRepository) ListByMentor(_ context.Context, mentorID int64, filter model.BookingFilter) ([]*model.Booking, error) {
	return r.list(func(b *model.Booking) bool { return b.MentorID == mentorID }, filter), nil
}

func (r *BookingRepository) list(owned func(*model.Booking) bool, filter model.BookingFilter) []*model.Booking {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	bookings := make([]*model.Booking, 0)
	for _, b := range r.st.bookings {
		if !owned(b) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Upcoming && b.DateTime.Before(filter.Now) {
			continue
		}
		cp := *b
		if mentor, ok := r.st.users[b.MentorID]; ok {
			m := *mentor
			cp.Mentor = &m
		}
		bookings = append(bookings, &cp)
	}

	sortByTime(bookings, func(b *model.Booking) time.Time { return b.DateTime }, filter.Upcoming)
	return bookings
}
