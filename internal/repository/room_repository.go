package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	// GetByIDForUpdate читает зал с блокировкой строки до конца транзакции.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	// ListInService: работающие залы; people > 0 оставляет только те, куда компания помещается.
	ListInService(ctx context.Context, people int) ([]model.Room, error)
	Save(ctx context.Context, room *model.Room) error
	SetInService(ctx context.Context, id uuid.UUID, inService bool) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}

// Реализация на GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *model.Room) error {
	return mapError(r.db.WithContext(ctx).Create(room).Error)
}

func (r *GormRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &room, nil
}

func (r *GormRoomRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&room, "id = ?", id).
		Error
	if err != nil {
		return nil, mapError(err)
	}
	return &room, nil
}

func (r *GormRoomRepository) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.WithContext(ctx).Order("name").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *GormRoomRepository) ListInService(ctx context.Context, people int) ([]model.Room, error) {
	q := r.db.WithContext(ctx).Where("in_service = ?", true)
	if people > 0 {
		q = q.Where("min_capacity <= ? AND max_capacity >= ?", people, people)
	}

	var rooms []model.Room
	if err := q.Order("max_capacity, name").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *model.Room) error {
	return mapError(r.db.WithContext(ctx).Save(room).Error)
}

func (r *GormRoomRepository) SetInService(ctx context.Context, id uuid.UUID, inService bool) error {
	return r.updateFlag(ctx, id, "in_service", inService)
}

func (r *GormRoomRepository) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	return r.updateFlag(ctx, id, "is_available", available)
}

func (r *GormRoomRepository) updateFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("id = ?", id).
		Update(column, value).
		Error
}
