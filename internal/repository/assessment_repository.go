package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	assessmentColumns = `id, title, description, type, questions, is_active, course_id, created_by, created_at, updated_at`
	attemptColumns    = `id, assessment_id, user_id, answers, score, passed, correct_answers, total_questions, assessment_type, submitted_at`
)

type AssessmentRepository struct {
	*base.Repository
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт тест. Вопросы хранятся в jsonb.
func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	query := `
		INSERT INTO assessments (title, description, type, questions, is_active, course_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		a.Title,
		a.Description,
		a.Type,
		a.Questions,
		a.IsActive,
		a.CourseID,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}

	return nil
}

// Update обновляет тест целиком
func (r *AssessmentRepository) Update(ctx context.Context, a *model.Assessment) error {
	query := `
		UPDATE assessments
		SET title = $1, description = $2, type = $3, questions = $4, is_active = $5, course_id = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		a.Title,
		a.Description,
		a.Type,
		a.Questions,
		a.IsActive,
		a.CourseID,
		a.ID,
	).Scan(&a.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrAssessmentNotFound
		}
		return fmt.Errorf("update assessment: %w", err)
	}

	return nil
}

// Delete удаляет тест, попытки удаляются каскадом
func (r *AssessmentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}

	if affected == 0 {
		return model.ErrAssessmentNotFound
	}

	return nil
}

// GetByID получает тест по ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id int64) (*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`

	a, err := scanAssessment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assessment by id: %w", err)
	}

	return a, nil
}

// List получает тесты по фильтру
func (r *AssessmentRepository) List(ctx context.Context, filter model.AssessmentFilter) ([]*model.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE ($1 = '' OR type = $1)
		  AND ($2::bigint IS NULL OR course_id = $2)
		  AND (NOT $3 OR is_active)
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, string(filter.Type), filter.CourseID, filter.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]*model.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

// CreateAttempt сохраняет попытку. Вторая попытка отбивается уникальным ограничением.
func (r *AssessmentRepository) CreateAttempt(ctx context.Context, attempt *model.AssessmentAttempt) error {
	query := `
		INSERT INTO assessment_attempts
			(assessment_id, user_id, answers, score, passed, correct_answers, total_questions, assessment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, submitted_at
	`

	err := r.QueryRow(
		ctx, query,
		attempt.AssessmentID,
		attempt.UserID,
		attempt.Answers,
		attempt.Score,
		attempt.Passed,
		attempt.CorrectAnswers,
		attempt.TotalQuestions,
		attempt.AssessmentType,
	).Scan(&attempt.ID, &attempt.SubmittedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "assessment_attempts_assessment_user_key") {
			return model.ErrAttemptExists
		}
		return fmt.Errorf("create attempt: %w", err)
	}

	return nil
}

// GetAttempt получает попытку по ID
func (r *AssessmentRepository) GetAttempt(ctx context.Context, id int64) (*model.AssessmentAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM assessment_attempts WHERE id = $1`

	attempt, err := scanAttempt(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attempt by id: %w", err)
	}

	return attempt, nil
}

// FindAttempt получает попытку пользователя по тесту
func (r *AssessmentRepository) FindAttempt(ctx context.Context, assessmentID, userID int64) (*model.AssessmentAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM assessment_attempts WHERE assessment_id = $1 AND user_id = $2`

	attempt, err := scanAttempt(r.QueryRow(ctx, query, assessmentID, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attempt: %w", err)
	}

	return attempt, nil
}

// ListAttemptsByUser получает все попытки пользователя
func (r *AssessmentRepository) ListAttemptsByUser(ctx context.Context, userID int64) ([]*model.AssessmentAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM assessment_attempts
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]*model.AssessmentAttempt, 0)
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

func scanAssessment(row base.Scanner) (*model.Assessment, error) {
	var a model.Assessment
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Type,
		&a.Questions,
		&a.IsActive,
		&a.CourseID,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAttempt(row base.Scanner) (*model.AssessmentAttempt, error) {
	var attempt model.AssessmentAttempt
	err := row.Scan(
		&attempt.ID,
		&attempt.AssessmentID,
		&attempt.UserID,
		&attempt.Answers,
		&attempt.Score,
		&attempt.Passed,
		&attempt.CorrectAnswers,
		&attempt.TotalQuestions,
		&attempt.AssessmentType,
		&attempt.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
