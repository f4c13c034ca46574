package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `b.id, b.nurse_id, b.mentor_id, b.availability_id, b.date_time, b.duration_minutes,
	b.session_type, b.status, b.price, b.notes, b.meeting_link, b.cancelled_at, b.created_at, b.updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Reserve занимает место в слоте и создаёт бронирование в одной транзакции.
// Проверка вместимости и инкремент счётчика - один условный UPDATE,
// поэтому параллельные запросы не могут переполнить слот.
// Дубликат ловится уникальным индексом, транзакция откатывает инкремент.
func (r *BookingRepository) Reserve(ctx context.Context, booking *model.Booking, now time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		reserveQuery := `
			UPDATE mentor_availability
			SET current_bookings = current_bookings + 1, updated_at = now()
			WHERE id = $1
			  AND is_active
			  AND current_bookings < max_bookings
			  AND start_date_time > $2
			RETURNING mentor_id, start_date_time, duration_minutes, session_type, price
		`

		err := tx.QueryRow(ctx, reserveQuery, booking.AvailabilityID, now).Scan(
			&booking.MentorID,
			&booking.DateTime,
			&booking.DurationMinutes,
			&booking.SessionType,
			&booking.Price,
		)
		if err != nil {
			if base.IsNotFound(err) {
				return rejectReason(ctx, tx, booking.AvailabilityID, now)
			}
			return fmt.Errorf("reserve slot: %w", err)
		}

		insertQuery := `
			INSERT INTO mentor_bookings
				(nurse_id, mentor_id, availability_id, date_time, duration_minutes, session_type, status, price, notes, meeting_link)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at
		`

		err = tx.QueryRow(
			ctx, insertQuery,
			booking.NurseID,
			booking.MentorID,
			booking.AvailabilityID,
			booking.DateTime,
			booking.DurationMinutes,
			booking.SessionType,
			booking.Status,
			booking.Price,
			booking.Notes,
			booking.MeetingLink,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

		if err != nil {
			if base.IsUniqueViolation(err, "mentor_bookings_active_key") {
				return model.ErrAlreadyBooked
			}
			return fmt.Errorf("create booking: %w", err)
		}

		return nil
	})
}

// rejectReason объясняет почему условный UPDATE не затронул слот
func rejectReason(ctx context.Context, q base.Querier, slotID int64, now time.Time) error {
	query := `SELECT ` + slotColumns + ` FROM mentor_availability a WHERE a.id = $1`

	slot, err := scanSlot(q.QueryRow(ctx, query, slotID))
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrSlotNotFound
		}
		return fmt.Errorf("get slot: %w", err)
	}

	if err := slot.CheckBookable(now); err != nil {
		return err
	}

	// Слот освободился между UPDATE и SELECT - для клиента это всё равно конфликт
	return model.ErrSlotFull
}

// Cancel отменяет бронирование и освобождает место в слоте в одной транзакции
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64, now time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		cancelQuery := `
			UPDATE mentor_bookings
			SET status = 'cancelled', cancelled_at = $2, updated_at = now()
			WHERE id = $1 AND status IN ('pending', 'confirmed')
			RETURNING availability_id
		`

		var slotID int64
		err := tx.QueryRow(ctx, cancelQuery, bookingID, now).Scan(&slotID)
		if err != nil {
			if !base.IsNotFound(err) {
				return fmt.Errorf("cancel booking: %w", err)
			}

			var status model.BookingStatus
			err = tx.QueryRow(ctx, `SELECT status FROM mentor_bookings WHERE id = $1`, bookingID).Scan(&status)
			switch {
			case base.IsNotFound(err):
				return model.ErrBookingNotFound
			case err != nil:
				return fmt.Errorf("get booking status: %w", err)
			case status == model.BookingStatusCancelled:
				return model.ErrBookingAlreadyCancelled
			default:
				return model.ErrBookingNotActive
			}
		}

		releaseQuery := `
			UPDATE mentor_availability
			SET current_bookings = GREATEST(current_bookings - 1, 0), updated_at = now()
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, releaseQuery, slotID); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}

		return nil
	})
}

// Complete переводит подтверждённое бронирование в completed
func (r *BookingRepository) Complete(ctx context.Context, bookingID int64) error {
	query := `
		UPDATE mentor_bookings
		SET status = 'completed', updated_at = now()
		WHERE id = $1 AND status = 'confirmed'
	`

	affected, err := r.ExecAffected(ctx, query, bookingID)
	if err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}

	if affected == 0 {
		return model.ErrStatusTransition
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM mentor_bookings b WHERE b.id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ExistsActive проверяет есть ли у пользователя неотменённое бронирование слота
func (r *BookingRepository) ExistsActive(ctx context.Context, slotID, nurseID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM mentor_bookings
			WHERE availability_id = $1 AND nurse_id = $2 AND status <> 'cancelled'
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, slotID, nurseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check booking exists: %w", err)
	}

	return exists, nil
}

// ListByNurse получает бронирования пользователя
func (r *BookingRepository) ListByNurse(ctx context.Context, nurseID int64, filter model.BookingFilter) ([]*model.Booking, error) {
	return r.list(ctx, "b.nurse_id", nurseID, filter)
}

// ListByMentor получает бронирования к ментору
func (r *BookingRepository) ListByMentor(ctx context.Context, mentorID int64, filter model.BookingFilter) ([]*model.Booking, error) {
	return r.list(ctx, "b.mentor_id", mentorID, filter)
}

func (r *BookingRepository) list(ctx context.Context, ownerColumn string, ownerID int64, filter model.BookingFilter) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, m.id, m.full_name, m.email, m.role, m.specialization
		FROM mentor_bookings b
		JOIN users m ON m.id = b.mentor_id
		WHERE ` + ownerColumn + ` = $1
		  AND ($2 = '' OR b.status = $2)
		  AND (NOT $3 OR b.date_time >= $4)
	`
	if filter.Upcoming {
		query += ` ORDER BY b.date_time ASC`
	} else {
		query += ` ORDER BY b.date_time DESC`
	}

	rows, err := r.Query(ctx, query, ownerID, string(filter.Status), filter.Upcoming, filter.Now)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var booking model.Booking
		var mentor model.User
		err := rows.Scan(
			&booking.ID,
			&booking.NurseID,
			&booking.MentorID,
			&booking.AvailabilityID,
			&booking.DateTime,
			&booking.DurationMinutes,
			&booking.SessionType,
			&booking.Status,
			&booking.Price,
			&booking.Notes,
			&booking.MeetingLink,
			&booking.CancelledAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&mentor.ID,
			&mentor.FullName,
			&mentor.Email,
			&mentor.Role,
			&mentor.Specialization,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Mentor = &mentor
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

func scanBooking(row base.Scanner) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.NurseID,
		&booking.MentorID,
		&booking.AvailabilityID,
		&booking.DateTime,
		&booking.DurationMinutes,
		&booking.SessionType,
		&booking.Status,
		&booking.Price,
		&booking.Notes,
		&booking.MeetingLink,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
