package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

// Хранилища, от которых зависят сервисы. Реализации: repository (postgres) и repository/memory.
// Get* методы возвращают (nil, nil), если запись не найдена.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type AvailabilityStore interface {
	Create(ctx context.Context, slot *model.MentorAvailability) error
	GetByID(ctx context.Context, id int64) (*model.MentorAvailability, error)
	ListOpen(ctx context.Context, filter model.SlotFilter) ([]*model.MentorAvailability, int, error)
	ListByMentor(ctx context.Context, mentorID int64, from, to time.Time) ([]*model.MentorAvailability, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeactivatePast(ctx context.Context, now time.Time) (int64, error)
}

type BookingStore interface {
	// Reserve занимает место и создаёт бронирование атомарно
	Reserve(ctx context.Context, booking *model.Booking, now time.Time) error
	// Cancel отменяет бронирование и освобождает место атомарно
	Cancel(ctx context.Context, bookingID int64, now time.Time) error
	Complete(ctx context.Context, bookingID int64) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ExistsActive(ctx context.Context, slotID, nurseID int64) (bool, error)
	ListByNurse(ctx context.Context, nurseID int64, filter model.BookingFilter) ([]*model.Booking, error)
	ListByMentor(ctx context.Context, mentorID int64, filter model.BookingFilter) ([]*model.Booking, error)
}

type AssessmentStore interface {
	Create(ctx context.Context, a *model.Assessment) error
	Update(ctx context.Context, a *model.Assessment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Assessment, error)
	List(ctx context.Context, filter model.AssessmentFilter) ([]*model.Assessment, error)
	CreateAttempt(ctx context.Context, attempt *model.AssessmentAttempt) error
	GetAttempt(ctx context.Context, id int64) (*model.AssessmentAttempt, error)
	FindAttempt(ctx context.Context, assessmentID, userID int64) (*model.AssessmentAttempt, error)
	ListAttemptsByUser(ctx context.Context, userID int64) ([]*model.AssessmentAttempt, error)
}

type ContentStore interface {
	Create(ctx context.Context, c *model.Content) error
	Update(ctx context.Context, c *model.Content) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Content, error)
	List(ctx context.Context, filter model.ContentFilter) ([]*model.Content, int, error)
}

type PurchaseStore interface {
	Create(ctx context.Context, p *model.Purchase) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Purchase, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *model.SessionFeedback) error
}

// Notifier доставка уведомлений ментору. Ошибки доставки не влияют на результат операции.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking, mentor *model.User)
	BookingCancelled(ctx context.Context, booking *model.Booking, mentor *model.User)
}

// AssessmentCache кеш публичного списка тестов
type AssessmentCache interface {
	Get(ctx context.Context, key string) ([]*model.PublicAssessment, bool)
	Set(ctx context.Context, key string, items []*model.PublicAssessment)
	Invalidate(ctx context.Context)
}

type nopNotifier struct{}

func (nopNotifier) BookingCreated(context.Context, *model.Booking, *model.User)   {}
func (nopNotifier) BookingCancelled(context.Context, *model.Booking, *model.User) {}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]*model.PublicAssessment, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []*model.PublicAssessment)        {}
func (nopCache) Invalidate(context.Context)                                    {}
