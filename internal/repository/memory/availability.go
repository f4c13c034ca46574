package memory

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type AvailabilityRepository struct {
	st *state
}

// Create создаёт слот с нулевым счётчиком
func (r *AvailabilityRepository) Create(_ context.Context, slot *model.MentorAvailability) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	now := timeNow()
	slot.ID = r.st.id()
	slot.CurrentBookings = 0
	slot.CreatedAt = now
	slot.UpdatedAt = now

	cp := *slot
	cp.Mentor = nil
	r.st.slots[slot.ID] = &cp
	return nil
}

// GetByID получает слот по ID
func (r *AvailabilityRepository) GetByID(_ context.Context, id int64) (*model.MentorAvailability, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	slot, ok := r.st.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

// ListOpen активные будущие слоты со свободными местами, по возрастанию времени
func (r *AvailabilityRepository) ListOpen(_ context.Context, filter model.SlotFilter) ([]*model.MentorAvailability, int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var matched []*model.MentorAvailability
	for _, slot := range r.st.slots {
		if !slot.IsActive || slot.StartDateTime.Before(filter.Now) || slot.IsFull() {
			continue
		}
		if filter.MentorID != nil && slot.MentorID != *filter.MentorID {
			continue
		}
		if filter.SessionType != "" && slot.SessionType != filter.SessionType {
			continue
		}
		if filter.From != nil && slot.StartDateTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !slot.StartDateTime.Before(*filter.To) {
			continue
		}

		mentor := r.st.users[slot.MentorID]
		if filter.Specialization != "" && (mentor == nil || !strings.EqualFold(mentor.Specialization, filter.Specialization)) {
			continue
		}

		cp := *slot
		if mentor != nil {
			m := *mentor
			cp.Mentor = &m
		}
		matched = append(matched, &cp)
	}

	sortByTime(matched, func(s *model.MentorAvailability) time.Time { return s.StartDateTime }, true)

	return paginate(matched, filter.Page), len(matched), nil
}

// ListByMentor все слоты ментора в [from, to)
func (r *AvailabilityRepository) ListByMentor(_ context.Context, mentorID int64, from, to time.Time) ([]*model.MentorAvailability, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var slots []*model.MentorAvailability
	for _, slot := range r.st.slots {
		if slot.MentorID != mentorID || slot.StartDateTime.Before(from) || !slot.StartDateTime.Before(to) {
			continue
		}
		cp := *slot
		slots = append(slots, &cp)
	}

	sortByTime(slots, func(s *model.MentorAvailability) time.Time { return s.StartDateTime }, true)
	return slots, nil
}

// SetActive переключает активность слота
func (r *AvailabilityRepository) SetActive(_ context.Context, id int64, active bool) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	slot, ok := r.st.slots[id]
	if !ok {
		return model.ErrSlotNotFound
	}
	slot.IsActive = active
	slot.UpdatedAt = timeNow()
	return nil
}

// DeactivatePast выключает начавшиеся слоты
func (r *AvailabilityRepository) DeactivatePast(_ context.Context, now time.Time) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var affected int64
	for _, slot := range r.st.slots {
		if slot.IsActive && !slot.StartDateTime.After(now) {
			slot.IsActive = false
			slot.UpdatedAt = timeNow()
			affected++
		}
	}
	return affected, nil
}
