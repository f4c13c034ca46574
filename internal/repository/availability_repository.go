package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `a.id, a.mentor_id, a.start_date_time, a.end_date_time, a.duration_minutes,
	a.max_bookings, a.current_bookings, a.price, a.session_type, a.is_active, a.created_at, a.updated_at`

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новый слот с нулевым счётчиком бронирований
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.MentorAvailability) error {
	query := `
		INSERT INTO mentor_availability
			(mentor_id, start_date_time, end_date_time, duration_minutes, max_bookings, current_bookings, price, session_type, is_active)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8)
		RETURNING id, current_bookings, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.MentorID,
		slot.StartDateTime,
		slot.EndDateTime,
		slot.DurationMinutes,
		slot.MaxBookings,
		slot.Price,
		slot.SessionType,
		slot.IsActive,
	).Scan(&slot.ID, &slot.CurrentBookings, &slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.MentorAvailability, error) {
	query := `SELECT ` + slotColumns + ` FROM mentor_availability a WHERE a.id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListOpen получает активные будущие слоты со свободными местами.
// Заполненные слоты отсекаются в самом запросе, чтобы total совпадал с выдачей.
func (r *AvailabilityRepository) ListOpen(ctx context.Context, filter model.SlotFilter) ([]*model.MentorAvailability, int, error) {
	conditions := []string{
		"a.is_active",
		"a.start_date_time >= $1",
		"a.current_bookings < a.max_bookings",
	}
	args := []interface{}{filter.Now}

	addArg := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.MentorID != nil {
		addArg("a.mentor_id = $%d", *filter.MentorID)
	}
	if filter.Specialization != "" {
		addArg("lower(u.specialization) = lower($%d)", filter.Specialization)
	}
	if filter.SessionType != "" {
		addArg("a.session_type = $%d", filter.SessionType)
	}
	if filter.From != nil {
		addArg("a.start_date_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		addArg("a.start_date_time < $%d", *filter.To)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM mentor_availability a
		JOIN users u ON u.id = a.mentor_id
		WHERE ` + where

	if err := r.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count open slots: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, u.id, u.full_name, u.email, u.role, u.specialization
		FROM mentor_availability a
		JOIN users u ON u.id = a.mentor_id
		WHERE %s
		ORDER BY a.start_date_time ASC, a.id ASC
		LIMIT %d OFFSET %d
	`, slotColumns, where, filter.Page.Limit, filter.Page.Offset())

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list open slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*model.MentorAvailability, 0)
	for rows.Next() {
		var slot model.MentorAvailability
		var mentor model.User
		err := rows.Scan(
			&slot.ID,
			&slot.MentorID,
			&slot.StartDateTime,
			&slot.EndDateTime,
			&slot.DurationMinutes,
			&slot.MaxBookings,
			&slot.CurrentBookings,
			&slot.Price,
			&slot.SessionType,
			&slot.IsActive,
			&slot.CreatedAt,
			&slot.UpdatedAt,
			&mentor.ID,
			&mentor.FullName,
			&mentor.Email,
			&mentor.Role,
			&mentor.Specialization,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan slot: %w", err)
		}
		slot.Mentor = &mentor
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, total, nil
}

// ListByMentor получает все слоты ментора в диапазоне [from, to)
func (r *AvailabilityRepository) ListByMentor(ctx context.Context, mentorID int64, from, to time.Time) ([]*model.MentorAvailability, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM mentor_availability a
		WHERE a.mentor_id = $1
		  AND a.start_date_time >= $2
		  AND a.start_date_time < $3
		ORDER BY a.start_date_time
	`

	rows, err := r.Query(ctx, query, mentorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get slots by mentor: %w", err)
	}
	defer rows.Close()

	var slots []*model.MentorAvailability
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// SetActive включает или выключает слот. Слоты не удаляются.
func (r *AvailabilityRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `
		UPDATE mentor_availability
		SET is_active = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("update slot active: %w", err)
	}

	if affected == 0 {
		return model.ErrSlotNotFound
	}

	return nil
}

// DeactivatePast выключает все активные слоты, которые уже начались
func (r *AvailabilityRepository) DeactivatePast(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE mentor_availability
		SET is_active = FALSE, updated_at = now()
		WHERE is_active AND start_date_time <= $1
	`

	affected, err := r.ExecAffected(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate past slots: %w", err)
	}

	return affected, nil
}

func scanSlot(row base.Scanner) (*model.MentorAvailability, error) {
	var slot model.MentorAvailability
	err := row.Scan(
		&slot.ID,
		&slot.MentorID,
		&slot.StartDateTime,
		&slot.EndDateTime,
		&slot.DurationMinutes,
		&slot.MaxBookings,
		&slot.CurrentBookings,
		&slot.Price,
		&slot.SessionType,
		&slot.IsActive,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
