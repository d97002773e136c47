package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeReservationCreated   EventType = "reservation.created"
	EventTypeReservationCancelled EventType = "reservation.cancelled"
	EventTypeReservationCompleted EventType = "reservation.completed"
	EventTypeCompletionUndone     EventType = "reservation.completion_undone"
	EventTypeCancellationReverted EventType = "reservation.cancellation_reverted"
	EventTypeRoomServiceChanged   EventType = "room.service_changed"
	EventTypeExtraDeleted         EventType = "extra.deleted"
)

// events: события аудита
type Event struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID        *uuid.UUID `gorm:"type:varchar(36);index"`
	ReservationID *uuid.UUID `gorm:"type:varchar(36);index"`
	RoomID        *uuid.UUID `gorm:"type:varchar(36);index"`

	Details datatypes.JSON
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
