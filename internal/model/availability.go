package model

import "time"

type SessionType string

const (
	SessionTypeVideo    SessionType = "video"
	SessionTypeAudio    SessionType = "audio"
	SessionTypeInPerson SessionType = "in_person"
)

// Valid проверяет что тип сессии известен
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeVideo, SessionTypeAudio, SessionTypeInPerson:
		return true
	}
	return false
}

// MentorAvailability - окно времени, которое ментор открыл для записи.
// CurrentBookings всегда равен числу неотменённых бронирований слота.
type MentorAvailability struct {
	ID              int64       `json:"id"`
	MentorID        int64       `json:"mentorId"`
	StartDateTime   time.Time   `json:"startDateTime"`
	EndDateTime     time.Time   `json:"endDateTime"`
	DurationMinutes int         `json:"duration"`
	MaxBookings     int         `json:"maxBookings"`
	CurrentBookings int         `json:"currentBookings"`
	Price           int64       `json:"price"`
	SessionType     SessionType `json:"sessionType"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	// Не из таблицы слотов
	Mentor *User `json:"mentor,omitempty"`
}

// IsFull проверяет что все места в слоте заняты
func (s *MentorAvailability) IsFull() bool {
	return s.CurrentBookings >= s.MaxBookings
}

// SpotsLeft возвращает количество свободных мест
func (s *MentorAvailability) SpotsLeft() int {
	if s.IsFull() {
		return 0
	}
	return s.MaxBookings - s.CurrentBookings
}

// CheckBookable проверяет можно ли записаться в слот в момент now.
// Порядок проверок важен: неактивность, заполненность, прошедшее время.
func (s *MentorAvailability) CheckBookable(now time.Time) error {
	if !s.IsActive {
		return ErrSlotInactive
	}
	if s.IsFull() {
		return ErrSlotFull
	}
	if !s.StartDateTime.After(now) {
		return ErrSlotInPast
	}
	return nil
}

// SlotFilter параметры выборки доступных слотов
type SlotFilter struct {
	MentorID       *int64
	Specialization string
	SessionType    SessionType
	From           *time.Time // начало дня, если задан date
	To             *time.Time // конец дня (не включая)
	Now            time.Time
	Page           Page
}
