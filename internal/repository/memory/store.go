// Package memory хранилище в памяти с той же семантикой, что и postgres репозитории.
// Используется в режиме STORAGE=memory и в тестах.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type state struct {
	mu     sync.Mutex
	nextID int64

	users       map[int64]*model.User
	slots       map[int64]*model.MentorAvailability
	bookings    map[int64]*model.Booking
	assessments map[int64]*model.Assessment
	attempts    map[int64]*model.AssessmentAttempt
	content     map[int64]*model.Content
	purchases   map[int64]*model.Purchase
	feedback    map[int64]*model.SessionFeedback
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store набор репозиториев над общим состоянием
type Store struct {
	Users        *UserRepository
	Availability *AvailabilityRepository
	Bookings     *BookingRepository
	Assessments  *AssessmentRepository
	Content      *ContentRepository
	Purchases    *PurchaseRepository
	Feedback     *FeedbackRepository
}

// New создаёт пустое хранилище
func New() *Store {
	st := &state{
		users:       make(map[int64]*model.User),
		slots:       make(map[int64]*model.MentorAvailability),
		bookings:    make(map[int64]*model.Booking),
		assessments: make(map[int64]*model.Assessment),
		attempts:    make(map[int64]*model.AssessmentAttempt),
		content:     make(map[int64]*model.Content),
		purchases:   make(map[int64]*model.Purchase),
		feedback:    make(map[int64]*model.SessionFeedback),
	}

	return &Store{
		Users:        &UserRepository{st: st},
		Availability: &AvailabilityRepository{st: st},
		Bookings:     &BookingRepository{st: st},
		Assessments:  &AssessmentRepository{st: st},
		Content:      &ContentRepository{st: st},
		Purchases:    &PurchaseRepository{st: st},
		Feedback:     &FeedbackRepository{st: st},
	}
}

func paginate[T any](items []T, page model.Page) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end < start || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortByTime[T any](items []T, at func(T) time.Time, asc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return at(items[i]).Before(at(items[j]))
		}
		return at(items[i]).After(at(items[j]))
	})
}
