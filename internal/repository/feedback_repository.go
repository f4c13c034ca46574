package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepository struct {
	*base.Repository
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет оценку сессии, повторная оценка отбивается ограничением
func (r *FeedbackRepository) Create(ctx context.Context, f *model.SessionFeedback) error {
	query := `
		INSERT INTO session_feedback (booking_id, user_id, rating, tags, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.QueryRow(ctx, query, f.BookingID, f.UserID, f.Rating, tags, f.Comment).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, "session_feedback_booking_user_key") {
			return model.ErrFeedbackExists
		}
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}
