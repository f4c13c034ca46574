package model

import "time"

type Role string

const (
	RoleNurse  Role = "nurse"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

// Valid проверяет что роль известна
func (r Role) Valid() bool {
	switch r {
	case RoleNurse, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	TelegramChatID *int64    `json:"-"` // куда слать уведомления ментору, nil - не слать
	CreatedAt      time.Time `json:"createdAt"`
}

// IsAdmin проверяет что пользователь администратор
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor тот, кто выполняет запрос (из JWT)
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin проверяет что запрос от администратора
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
