package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type recordingNotifier struct {
	mu        sync.Mutex
	created   []int64
	cancelled []int64
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *model.Booking, _ *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.ID)
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b *model.Booking, _ *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b.ID)
}

type fixture struct {
	store    *memory.Store
	notifier *recordingNotifier
	slots    *AvailabilityService
	bookings *BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	notifier := &recordingNotifier{}
	logger := zap.NewNop()

	slots := NewAvailabilityService(store.Availability, store.Users, time.UTC, logger)
	slots.now = fixedClock

	bookings := NewBookingService(store.Availability, store.Bookings, store.Users, notifier, "https://meet.example.com/", logger)
	bookings.now = fixedClock

	return &fixture{store: store, notifier: notifier, slots: slots, bookings: bookings}
}

func (f *fixture) user(t *testing.T, role model.Role, email string) *model.User {
	t.Helper()
	u := &model.User{FullName: "Test " + string(role), Email: email, Role: role, Specialization: "icu"}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

// slot кладёт слот прямо в хранилище, минуя проверки сервиса
func (f *fixture) slot(t *testing.T, mentorID int64, start time.Time, max int) *model.MentorAvailability {
	t.Helper()
	s := &model.MentorAvailability{
		MentorID:        mentorID,
		StartDateTime:   start,
		EndDateTime:     start.Add(time.Hour),
		DurationMinutes: 60,
		MaxBookings:     max,
		Price:           1999,
		SessionType:     model.SessionTypeVideo,
		IsActive:        true,
	}
	require.NoError(t, f.store.Availability.Create(context.Background(), s))
	return s
}

func (f *fixture) currentBookings(t *testing.T, slotID int64) int {
	t.Helper()
	s, err := f.store.Availability.GetByID(context.Background(), slotID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.CurrentBookings
}
