package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories: набор репозиториев поверх одного соединения или транзакции.
type Repositories struct {
	Rooms        RoomRepository
	Reservations ReservationRepository
	Extras       ExtraRepository
	Users        UserRepository
	Events       EventRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Rooms:        NewGormRoomRepository(db),
		Reservations: NewGormReservationRepository(db),
		Extras:       NewGormExtraRepository(db),
		Users:        NewGormUserRepository(db),
		Events:       NewGormEventRepository(db),
	}
}

// Transactor выполняет fn в одной транзакции. Ошибка из fn откатывает всё.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos Repositories) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) InTx(ctx context.Context, fn func(repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
