package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Ошибки валидации пользователя, оформляющего бронь.
var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserInactive  = errors.New("user is inactive")
)

// Статус пользователя в системе.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBlocked  UserStatus = "blocked"
)

// Роль пользователя в системе.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

// Доменная модель пользователя.
type User struct {
	ID     uuid.UUID
	Email  string
	Role   UserRole
	Status UserStatus
}

// Источник данных о пользователях.
// В реале это обёртка над БД, в тестах: мок.
type UserStore interface {
	FindUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// ValidateUser:
//   - проверяет идентификатор;
//   - вытаскивает пользователя из хранилища;
//   - проверяет статус (активен / нет).
func ValidateUser(ctx context.Context, store UserStore, id uuid.UUID) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	u, err := store.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if u.Status == UserStatusInactive || u.Status == UserStatusBlocked {
		return nil, ErrUserInactive
	}

	return u, nil
}
