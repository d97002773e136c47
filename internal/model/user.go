package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
)

// users: владельцы броней. Регистрация и вход живут вне этого сервиса,
// здесь нужна только проверка существования и статуса.
type User struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey"`

	Email       string `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(255)"`

	Status calendar.UserStatus `gorm:"type:varchar(16);not null"`
	Role   calendar.UserRole   `gorm:"type:varchar(16);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	if u.Status == "" {
		u.Status = calendar.UserStatusActive
	}
	if u.Role == "" {
		u.Role = calendar.UserRoleCustomer
	}
	return nil
}
