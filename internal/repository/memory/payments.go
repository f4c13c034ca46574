package memory

import (
	"context"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type PurchaseRepository struct {
	st *state
}

// Create сохраняет покупку
func (r *PurchaseRepository) Create(_ context.Context, p *model.Purchase) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p.ID = r.st.id()
	p.CreatedAt = timeNow()
	cp := *p
	r.st.purchases[p.ID] = &cp
	return nil
}

// ListByUser покупки пользователя
func (r *PurchaseRepository) ListByUser(_ context.Context, userID int64) ([]*model.Purchase, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	result := make([]*model.Purchase, 0)
	for _, p := range r.st.purchases {
		if p.UserID == userID {
			cp := *p
			result = append(result, &cp)
		}
	}

	sortByTime(result, func(p *model.Purchase) time.Time { return p.CreatedAt }, false)
	return result, nil
}

type FeedbackRepository struct {
	st *state
}

// Create сохраняет оценку, одна на (бронирование, пользователь)
func (r *FeedbackRepository) Create(_ context.Context, f *model.SessionFeedback) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, existing := range r.st.feedback {
		if existing.BookingID == f.BookingID && existing.UserID == f.UserID {
			return model.ErrFeedbackExists
		}
	}

	f.ID = r.st.id()
	f.CreatedAt = timeNow()
	cp := *f
	cp.Tags = append([]string(nil), f.Tags...)
	r.st.feedback[f.ID] = &cp
	return nil
}
