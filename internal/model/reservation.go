package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
)

// Статус брони.
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// reservations
type Reservation struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey"`

	RoomID uuid.UUID `gorm:"type:varchar(36);not null;index:idx_reservations_room_date,priority:1"`
	UserID uuid.UUID `gorm:"type:varchar(36);not null;index:idx_reservations_user_date,priority:1"`

	ReservationDate datatypes.Date `gorm:"not null;index:idx_reservations_room_date,priority:2;index:idx_reservations_user_date,priority:2"`

	// Минуты от полуночи; EndTime < StartTime: переход через полночь.
	StartTime       calendar.TimeOfDay `gorm:"not null"`
	EndTime         calendar.TimeOfDay `gorm:"not null"`
	DurationMinutes int                `gorm:"not null"`

	NumberOfPeople int `gorm:"not null"`

	Status ReservationStatus `gorm:"type:varchar(16);not null;index"`

	// Итог в центах, всегда считается на сервере.
	TotalPrice int64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Room   *Room   `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Extras []Extra `gorm:"many2many:reservation_extras;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r *Reservation) Range() calendar.TimeRange {
	return calendar.TimeRange{Start: r.StartTime, End: r.EndTime}
}

func (r *Reservation) Date() time.Time {
	return calendar.DateOf(time.Time(r.ReservationDate))
}

// Span: моменты начала и конца брони в таймзоне заведения.
func (r *Reservation) Span(loc *time.Location) (time.Time, time.Time) {
	return r.Range().Span(r.Date(), loc)
}

// ExtraIDs: идентификаторы привязанных доп. услуг.
func (r *Reservation) ExtraIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Extras))
	for _, e := range r.Extras {
		ids = append(ids, e.ID)
	}
	return ids
}
