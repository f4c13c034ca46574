package memory

import (
	"context"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type AssessmentRepository struct {
	st *state
}

func copyAssessment(a *model.Assessment) *model.Assessment {
	cp := *a
	cp.Questions = make([]model.Question, len(a.Questions))
	for i, q := range a.Questions {
		cp.Questions[i] = q
		cp.Questions[i].Options = append([]string(nil), q.Options...)
	}
	return &cp
}

// Create создаёт тест
func (r *AssessmentRepository) Create(_ context.Context, a *model.Assessment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	now := timeNow()
	a.ID = r.st.id()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.st.assessments[a.ID] = copyAssessment(a)
	return nil
}

// Update обновляет тест
func (r *AssessmentRepository) Update(_ context.Context, a *model.Assessment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	existing, ok := r.st.assessments[a.ID]
	if !ok {
		return model.ErrAssessmentNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.CreatedBy = existing.CreatedBy
	a.UpdatedAt = timeNow()
	r.st.assessments[a.ID] = copyAssessment(a)
	return nil
}

// Delete удаляет тест вместе с попытками
func (r *AssessmentRepository) Delete(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.assessments[id]; !ok {
		return model.ErrAssessmentNotFound
	}
	delete(r.st.assessments, id)
	for attemptID, attempt := range r.st.attempts {
		if attempt.AssessmentID == id {
			delete(r.st.attempts, attemptID)
		}
	}
	return nil
}

// GetByID получает тест по ID
func (r *AssessmentRepository) GetByID(_ context.Context, id int64) (*model.Assessment, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	a, ok := r.st.assessments[id]
	if !ok {
		return nil, nil
	}
	return copyAssessment(a), nil
}

// List тесты по фильтру, новые первыми
func (r *AssessmentRepository) List(_ context.Context, filter model.AssessmentFilter) ([]*model.Assessment, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	result := make([]*model.Assessment, 0)
	for _, a := range r.st.assessments {
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.CourseID != nil && (a.CourseID == nil || *a.CourseID != *filter.CourseID) {
			continue
		}
		if filter.ActiveOnly && !a.IsActive {
			continue
		}
		result = append(result, copyAssessment(a))
	}

	sortByTime(result, func(a *model.Assessment) time.Time { return a.CreatedAt }, false)
	return result, nil
}

// CreateAttempt сохраняет попытку, одна на пару (тест, пользователь)
func (r *AssessmentRepository) CreateAttempt(_ context.Context, attempt *model.AssessmentAttempt) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, existing := range r.st.attempts {
		if existing.AssessmentID == attempt.AssessmentID && existing.UserID == attempt.UserID {
			return model.ErrAttemptExists
		}
	}

	attempt.ID = r.st.id()
	attempt.SubmittedAt = timeNow()
	cp := *attempt
	cp.Answers = append([]int(nil), attempt.Answers...)
	r.st.attempts[attempt.ID] = &cp
	return nil
}

// GetAttempt получает попытку по ID
func (r *AssessmentRepository) GetAttempt(_ context.Context, id int64) (*model.AssessmentAttempt, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	attempt, ok := r.st.attempts[id]
	if !ok {
		return nil, nil
	}
	cp := *attempt
	return &cp, nil
}

// FindAttempt попытка пользователя по тесту
func (r *AssessmentRepository) FindAttempt(_ context.Context, assessmentID, userID int64) (*model.AssessmentAttempt, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, attempt := range r.st.attempts {
		if attempt.AssessmentID == assessmentID && attempt.UserID == userID {
			cp := *attempt
			return &cp, nil
		}
	}
	return nil, nil
}

// ListAttemptsByUser все попытки пользователя
func (r *AssessmentRepository) ListAttemptsByUser(_ context.Context, userID int64) ([]*model.AssessmentAttempt, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	result := make([]*model.AssessmentAttempt, 0)
	for _, attempt := range r.st.attempts {
		if attempt.UserID == userID {
			cp := *attempt
			result = append(result, &cp)
		}
	}

	sortByTime(result, func(a *model.AssessmentAttempt) time.Time { return a.SubmittedAt }, false)
	return result, nil
}
