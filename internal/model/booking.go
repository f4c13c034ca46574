package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCompleted BookingStatus = "completed" // Завершено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

// CancellationWindow минимальное время до начала сессии, когда отмена ещё разрешена
const CancellationWindow = 24 * time.Hour

// bookingTransitions допустимые переходы статусов бронирования.
// Переход в completed делает только внешний процесс через CompleteBooking.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

// Valid проверяет что статус известен
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransition проверяет допустим ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              int64         `json:"id"`
	NurseID         int64         `json:"nurseId"`
	MentorID        int64         `json:"mentorId"`
	AvailabilityID  int64         `json:"availabilityId"`
	DateTime        time.Time     `json:"dateTime"`
	DurationMinutes int           `json:"duration"`
	SessionType     SessionType   `json:"sessionType"`
	Status          BookingStatus `json:"status"`
	Price           int64         `json:"price"`
	Notes           string        `json:"notes,omitempty"`
	MeetingLink     string        `json:"meetingLink,omitempty"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	// Дополнительные поля для удобства (не из БД)
	Mentor *User `json:"mentor,omitempty"`
}

// IsCancelled проверяет что бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// CheckCancellable проверяет правило отмены: не позже чем за 24 часа до начала.
// Ровно 24 часа до начала - отмена ещё разрешена.
func (b *Booking) CheckCancellable(now time.Time) error {
	if b.IsCancelled() {
		return ErrBookingAlreadyCancelled
	}
	if !CanTransition(b.Status, BookingStatusCancelled) {
		return ErrBookingNotActive
	}
	if b.DateTime.Sub(now) < CancellationWindow {
		return ErrCancellationWindow
	}
	return nil
}

// BookingFilter параметры выборки бронирований
type BookingFilter struct {
	Status   BookingStatus
	Upcoming bool
	Now      time.Time
}
