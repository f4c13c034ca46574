package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// RegisterInput данные нового пользователя (создаёт администратор)
type RegisterInput struct {
	FullName       string
	Email          string
	Role           model.Role
	Specialization string
	TelegramChatID *int64
}

// RegisterUser создаёт пользователя
func (s *UserService) RegisterUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FullName == "" {
		return nil, model.ValidationError("full name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, model.ValidationError("email is invalid")
	}
	if in.Role == "" {
		in.Role = model.RoleNurse
	}
	if !in.Role.Valid() {
		return nil, model.ValidationError("unknown role %q", in.Role)
	}

	user := &model.User{
		FullName:       in.FullName,
		Email:          in.Email,
		Role:           in.Role,
		Specialization: strings.TrimSpace(in.Specialization),
		TelegramChatID: in.TelegramChatID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// GetMe получает профиль пользователя из токена
func (s *UserService) GetMe(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
