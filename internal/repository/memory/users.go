package memory

import (
	"context"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type UserRepository struct {
	st *state
}

// Create создаёт пользователя, email уникален без учёта регистра
func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.ErrEmailTaken
		}
	}

	user.ID = r.st.id()
	user.CreatedAt = timeNow()
	cp := *user
	r.st.users[user.ID] = &cp
	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
