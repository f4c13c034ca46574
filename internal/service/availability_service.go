package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type AvailabilityService struct {
	slots    AvailabilityStore
	users    UserStore
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewAvailabilityService(slots AvailabilityStore, users UserStore, location *time.Location, logger *zap.Logger) *AvailabilityService {
	if location == nil {
		location = time.UTC
	}
	return &AvailabilityService{
		slots:    slots,
		users:    users,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// SlotQuery параметры из запроса списка слотов
type SlotQuery struct {
	MentorID       *int64
	Specialization string
	SessionType    string
	Date           string // YYYY-MM-DD, локальный день
	Page           int
	Limit          int
}

type SlotPage struct {
	Slots      []*model.MentorAvailability `json:"slots"`
	Pagination model.Pagination            `json:"pagination"`
}

// ListSlots получает доступные для записи слоты
func (s *AvailabilityService) ListSlots(ctx context.Context, q SlotQuery) (*SlotPage, error) {
	page, err := model.NewPage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	filter := model.SlotFilter{
		MentorID:       q.MentorID,
		Specialization: q.Specialization,
		SessionType:    model.SessionType(q.SessionType),
		Now:            s.now(),
		Page:           page,
	}

	if filter.SessionType != "" && !filter.SessionType.Valid() {
		return nil, model.ValidationError("unknown session type %q", q.SessionType)
	}

	if q.Date != "" {
		day, err := time.ParseInLocation(dateLayout, q.Date, s.location)
		if err != nil {
			return nil, model.ValidationError("date must be in YYYY-MM-DD format")
		}
		// День целиком: [00:00, 00:00 следующего дня)
		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.To = &next
	}

	slots, total, err := s.slots.ListOpen(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}

	return &SlotPage{
		Slots:      slots,
		Pagination: filter.Page.Paginate(total),
	}, nil
}

// CreateSlotInput поля нового слота
type CreateSlotInput struct {
	StartDateTime   time.Time
	EndDateTime     time.Time
	DurationMinutes int
	MaxBookings     int
	Price           int64
	SessionType     model.SessionType
}

// CreateSlot создаёт слот ментора
func (s *AvailabilityService) CreateSlot(ctx context.Context, mentorID int64, in CreateSlotInput) (*model.MentorAvailability, error) {
	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("get mentor: %w", err)
	}
	if mentor == nil {
		return nil, model.ErrUserNotFound
	}

	if !in.EndDateTime.After(in.StartDateTime) {
		return nil, model.ValidationError("end time must be after start time")
	}
	if !in.StartDateTime.After(s.now()) {
		return nil, model.ValidationError("start time must be in the future")
	}
	if in.Price < 0 {
		return nil, model.ValidationError("price must not be negative")
	}
	if in.MaxBookings < 0 {
		return nil, model.ValidationError("max bookings must be positive")
	}
	if in.MaxBookings == 0 {
		in.MaxBookings = 1
	}
	if in.SessionType == "" {
		in.SessionType = model.SessionTypeVideo
	}
	if !in.SessionType.Valid() {
		return nil, model.ValidationError("unknown session type %q", in.SessionType)
	}

	window := int(in.EndDateTime.Sub(in.StartDateTime).Minutes())
	if in.DurationMinutes == 0 {
		in.DurationMinutes = window
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > window {
		return nil, model.ValidationError("duration must fit between start and end time")
	}

	slot := &model.MentorAvailability{
		MentorID:        mentorID,
		StartDateTime:   in.StartDateTime,
		EndDateTime:     in.EndDateTime,
		DurationMinutes: in.DurationMinutes,
		MaxBookings:     in.MaxBookings,
		Price:           in.Price,
		SessionType:     in.SessionType,
		IsActive:        true,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("mentor_id", mentorID),
		zap.Time("start", slot.StartDateTime),
		zap.Int("max_bookings", slot.MaxBookings),
	)

	return slot, nil
}

// DeactivateSlot выключает слот. Может владелец или администратор.
func (s *AvailabilityService) DeactivateSlot(ctx context.Context, actor model.Actor, slotID int64) (*model.MentorAvailability, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}
	if slot.MentorID != actor.UserID && !actor.IsAdmin() {
		return nil, model.ErrNotSlotOwner
	}

	if err := s.slots.SetActive(ctx, slotID, false); err != nil {
		return nil, fmt.Errorf("deactivate slot: %w", err)
	}
	slot.IsActive = false

	s.logger.Info("Slot deactivated",
		zap.Int64("slot_id", slotID),
		zap.Int64("actor_id", actor.UserID),
	)

	return slot, nil
}

// MentorWeek получает слоты ментора за неделю (Пн-Вс), в которую попадает day
func (s *AvailabilityService) MentorWeek(ctx context.Context, mentorID int64, day time.Time) (time.Time, []*model.MentorAvailability, error) {
	weekStart := WeekStart(day.In(s.location))

	slots, err := s.slots.ListByMentor(ctx, mentorID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return weekStart, nil, fmt.Errorf("get mentor week: %w", err)
	}

	return weekStart, slots, nil
}

// DeactivatePastSlots выключает начавшиеся слоты
func (s *AvailabilityService) DeactivatePastSlots(ctx context.Context) (int64, error) {
	affected, err := s.slots.DeactivatePast(ctx, s.now())
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ParseDay разбирает дату YYYY-MM-DD в часовом поясе сервиса
func (s *AvailabilityService) ParseDay(value string) (time.Time, error) {
	if value == "" {
		return s.now().In(s.location), nil
	}
	day, err := time.ParseInLocation(dateLayout, value, s.location)
	if err != nil {
		return time.Time{}, model.ValidationError("date must be in YYYY-MM-DD format")
	}
	return day, nil
}

// WeekStart возвращает полночь понедельника недели, в которую попадает t
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	return day.AddDate(0, 0, -daysSinceMonday)
}
