package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSlotsOnlyBookable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	nurse := f.user(t, model.RoleNurse, "nurse@example.com")

	open := f.slot(t, mentor.ID, testNow.Add(24*time.Hour), 2)
	f.slot(t, mentor.ID, testNow.Add(-2*time.Hour), 2)
	full := f.slot(t, mentor.ID, testNow.Add(30*time.Hour), 1)
	inactive := f.slot(t, mentor.ID, testNow.Add(36*time.Hour), 1)
	later := f.slot(t, mentor.ID, testNow.Add(12*time.Hour), 1)

	_, err := f.bookings.BookSlot(ctx, full.ID, nurse.ID, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Availability.SetActive(ctx, inactive.ID, false))

	page, err := f.slots.ListSlots(ctx, SlotQuery{})
	require.NoError(t, err)

	require.Len(t, page.Slots, 2)
	assert.Equal(t, later.ID, page.Slots[0].ID, "sorted by start time")
	assert.Equal(t, open.ID, page.Slots[1].ID)
	assert.Equal(t, model.Pagination{Page: 1, Limit: model.DefaultPageLimit, Total: 2, Pages: 1}, page.Pagination)
	require.NotNil(t, page.Slots[0].Mentor)
	assert.Equal(t, mentor.ID, page.Slots[0].Mentor.ID)
}

func TestListSlotsFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	other := &model.User{FullName: "Other", Email: "other@example.com", Role: model.RoleMentor, Specialization: "pediatrics"}
	require.NoError(t, f.store.Users.Create(ctx, other))

	tomorrow := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	a := f.slot(t, mentor.ID, tomorrow, 1)
	b := f.slot(t, other.ID, tomorrow.Add(2*time.Hour), 1)
	c := f.slot(t, mentor.ID, tomorrow.AddDate(0, 0, 1), 1)

	byDate, err := f.slots.ListSlots(ctx, SlotQuery{Date: "2026-03-11"})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, slotIDs(byDate.Slots))

	byMentor, err := f.slots.ListSlots(ctx, SlotQuery{MentorID: &mentor.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, slotIDs(byMentor.Slots))

	bySpecialization, err := f.slots.ListSlots(ctx, SlotQuery{Specialization: "Pediatrics"})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, slotIDs(bySpecialization.Slots))

	paged, err := f.slots.ListSlots(ctx, SlotQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, slotIDs(paged.Slots))
	assert.Equal(t, 3, paged.Pagination.Total)
	assert.Equal(t, 2, paged.Pagination.Pages)

	_, err = f.slots.ListSlots(ctx, SlotQuery{Date: "11.03.2026"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.slots.ListSlots(ctx, SlotQuery{SessionType: "hologram"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func slotIDs(slots []*model.MentorAvailability) []int64 {
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	start := testNow.Add(24 * time.Hour)

	slot, err := f.slots.CreateSlot(ctx, mentor.ID, CreateSlotInput{
		StartDateTime: start,
		EndDateTime:   start.Add(90 * time.Minute),
		Price:         2500,
	})
	require.NoError(t, err)
	assert.NotZero(t, slot.ID)
	assert.Equal(t, 1, slot.MaxBookings)
	assert.Equal(t, 90, slot.DurationMinutes)
	assert.Equal(t, model.SessionTypeVideo, slot.SessionType)
	assert.Equal(t, 0, slot.CurrentBookings)
	assert.True(t, slot.IsActive)

	tests := []struct {
		name string
		in   CreateSlotInput
	}{
		{name: "end before start", in: CreateSlotInput{StartDateTime: start, EndDateTime: start.Add(-time.Hour)}},
		{name: "start in past", in: CreateSlotInput{StartDateTime: testNow.Add(-time.Hour), EndDateTime: testNow}},
		{name: "negative price", in: CreateSlotInput{StartDateTime: start, EndDateTime: start.Add(time.Hour), Price: -1}},
		{name: "duration too long", in: CreateSlotInput{StartDateTime: start, EndDateTime: start.Add(time.Hour), DurationMinutes: 61}},
		{name: "unknown type", in: CreateSlotInput{StartDateTime: start, EndDateTime: start.Add(time.Hour), SessionType: "chat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.slots.CreateSlot(ctx, mentor.ID, tt.in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	_, err = f.slots.CreateSlot(ctx, 999, CreateSlotInput{StartDateTime: start, EndDateTime: start.Add(time.Hour)})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestDeactivateSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	otherMentor := f.user(t, model.RoleMentor, "other@example.com")
	slot := f.slot(t, mentor.ID, testNow.Add(24*time.Hour), 1)

	_, err := f.slots.DeactivateSlot(ctx, model.Actor{UserID: otherMentor.ID, Role: model.RoleMentor}, slot.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	updated, err := f.slots.DeactivateSlot(ctx, model.Actor{UserID: mentor.ID, Role: model.RoleMentor}, slot.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	page, err := f.slots.ListSlots(ctx, SlotQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Slots)

	_, err = f.slots.DeactivateSlot(ctx, model.Actor{UserID: 1, Role: model.RoleAdmin}, 999)
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestDeactivatePastSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	past := f.slot(t, mentor.ID, testNow.Add(-time.Hour), 1)
	future := f.slot(t, mentor.ID, testNow.Add(time.Hour), 1)

	affected, err := f.slots.DeactivatePastSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := f.store.Availability.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = f.store.Availability.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestMentorWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")

	monday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	inWeek := f.slot(t, mentor.ID, monday.Add(10*time.Hour), 1)
	sunday := f.slot(t, mentor.ID, monday.AddDate(0, 0, 6).Add(23*time.Hour), 1)
	f.slot(t, mentor.ID, monday.AddDate(0, 0, 7).Add(time.Hour), 1)

	weekStart, slots, err := f.slots.MentorWeek(ctx, mentor.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, monday, weekStart)
	assert.Equal(t, []int64{inWeek.ID, sunday.ID}, slotIDs(slots))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, WeekStart(time.Date(2026, time.March, 9, 15, 30, 0, 0, time.UTC)))
	assert.Equal(t, monday, WeekStart(time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, monday, WeekStart(time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)))
}

func TestParseDay(t *testing.T) {
	f := newFixture(t)

	day, err := f.slots.ParseDay("2026-04-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), day)

	day, err = f.slots.ParseDay("")
	require.NoError(t, err)
	assert.Equal(t, testNow, day)

	_, err = f.slots.ParseDay("tomorrow")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestListSlotsRejectsOverflowingPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.user(t, model.RoleMentor, "mentor@example.com")
	f.slot(t, mentor.ID, testNow.Add(48*time.Hour), 1)

	_, err := f.slots.ListSlots(ctx, SlotQuery{Page: math.MaxInt / 5, Limit: 10})
	assert.ErrorIs(t, err, model.ErrValidation)

	// далёкая, но допустимая страница просто пустая
	page, err := f.slots.ListSlots(ctx, SlotQuery{Page: 1000, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Slots)
	assert.Equal(t, 1, page.Pagination.Total)
}
