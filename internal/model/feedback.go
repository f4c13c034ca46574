package model

import "time"

// SessionFeedback оценка прошедшей видеосессии, одна на бронирование
type SessionFeedback struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"`
	Tags      []string  `json:"tags,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
