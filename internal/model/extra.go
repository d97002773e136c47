package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// extras: доп. услуги (еда, напитки, декор). Живут независимо от броней.
type Extra struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey"`

	Name        string `gorm:"type:varchar(100);not null"`
	Type        string `gorm:"type:varchar(50);not null;index"`
	Description string `gorm:"type:text"`

	// Цена в центах.
	Price       int64 `gorm:"not null"`
	IsAvailable bool  `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (e *Extra) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
