package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// rooms
type Room struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey"`

	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`

	MinCapacity int `gorm:"not null"`
	MaxCapacity int `gorm:"not null"`

	// Цена часа в центах.
	PricePerHour int64 `gorm:"not null"`

	// InService: административный флаг "зал работает". Проверяется при записи.
	InService bool `gorm:"not null;index"`
	// IsAvailable: занятость по броням, пересчитывается жизненным циклом брони.
	IsAvailable bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// Fits: помещается ли компания в зал.
func (r *Room) Fits(people int) bool {
	return people >= r.MinCapacity && people <= r.MaxCapacity
}
