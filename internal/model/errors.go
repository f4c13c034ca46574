package model

import (
	"errors"
	"fmt"
)

// Виды ошибок. Конкретные ошибки ниже оборачивают один из видов,
// поэтому errors.Is(err, ErrNotFound) работает для любой "не найдено".
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrPolicyViolation = errors.New("policy violation")
	ErrValidation      = errors.New("validation error")
	ErrInvalidCoupon   = errors.New("invalid coupon")
	ErrAccessDenied    = errors.New("access denied")
)

var (
	ErrUserNotFound       = kind(ErrNotFound, "user not found")
	ErrSlotNotFound       = kind(ErrNotFound, "slot not found")
	ErrBookingNotFound    = kind(ErrNotFound, "booking not found")
	ErrAssessmentNotFound = kind(ErrNotFound, "assessment not found")
	ErrAttemptNotFound    = kind(ErrNotFound, "assessment result not found")
	ErrContentNotFound    = kind(ErrNotFound, "content not found")

	ErrSlotFull       = kind(ErrConflict, "slot is fully booked")
	ErrAlreadyBooked  = kind(ErrConflict, "you have already booked this slot")
	ErrAttemptExists  = kind(ErrConflict, "assessment already submitted")
	ErrSlugTaken      = kind(ErrConflict, "slug is already taken")
	ErrEmailTaken     = kind(ErrConflict, "email is already registered")
	ErrFeedbackExists = kind(ErrConflict, "feedback already submitted")

	ErrSlotInactive            = kind(ErrInvalidState, "slot is not active")
	ErrSlotInPast              = kind(ErrInvalidState, "cannot book a slot in the past")
	ErrBookingAlreadyCancelled = kind(ErrInvalidState, "booking is already cancelled")
	ErrBookingNotActive        = kind(ErrInvalidState, "booking is not active")
	ErrAssessmentInactive      = kind(ErrInvalidState, "assessment is not active")
	ErrStatusTransition        = kind(ErrInvalidState, "status transition is not allowed")
	ErrSessionNotStarted       = kind(ErrInvalidState, "feedback is available once the session has started")

	ErrCancellationWindow = kind(ErrPolicyViolation, "bookings can only be cancelled at least 24 hours before the session")

	ErrUnknownCoupon = kind(ErrInvalidCoupon, "invalid coupon code")

	ErrNotResultOwner = kind(ErrAccessDenied, "you are not allowed to view this result")
	ErrNotSlotOwner   = kind(ErrAccessDenied, "you are not allowed to modify this slot")
)

// Error ошибка предметной области: текст для клиента + вид для маппинга в HTTP статус
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func kind(k error, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

// ValidationError создаёт ошибку валидации с понятным сообщением
func ValidationError(format string, args ...interface{}) error {
	return kind(ErrValidation, fmt.Sprintf(format, args...))
}
