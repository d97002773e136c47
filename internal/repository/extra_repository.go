package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

type ExtraRepository interface {
	Create(ctx context.Context, extra *model.Extra) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Extra, error)
	// ListByIDs возвращает найденные услуги; отсутствующие id просто пропускаются.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Extra, error)
	List(ctx context.Context) ([]model.Extra, error)
	// ListByType: поиск по типу без учёта регистра.
	ListByType(ctx context.Context, extraType string) ([]model.Extra, error)
	Types(ctx context.Context) ([]string, error)
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormExtraRepository struct {
	db *gorm.DB
}

func NewGormExtraRepository(db *gorm.DB) *GormExtraRepository {
	return &GormExtraRepository{db: db}
}

func (r *GormExtraRepository) Create(ctx context.Context, extra *model.Extra) error {
	return mapError(r.db.WithContext(ctx).Create(extra).Error)
}

func (r *GormExtraRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Extra, error) {
	var e model.Extra
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *GormExtraRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Extra, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var extras []model.Extra
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}

func (r *GormExtraRepository) List(ctx context.Context) ([]model.Extra, error) {
	var extras []model.Extra
	if err := r.db.WithContext(ctx).Order("type, name").Find(&extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}

func (r *GormExtraRepository) ListByType(ctx context.Context, extraType string) ([]model.Extra, error) {
	var extras []model.Extra
	err := r.db.WithContext(ctx).
		Where("LOWER(type) = ?", strings.ToLower(strings.TrimSpace(extraType))).
		Order("name").
		Find(&extras).
		Error
	if err != nil {
		return nil, err
	}
	return extras, nil
}

func (r *GormExtraRepository) Types(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&model.Extra{}).
		Distinct("type").
		Order("type").
		Pluck("type", &types).
		Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormExtraRepository) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Extra{}).
		Where("id = ?", id).
		Update("is_available", available).
		Error
}

func (r *GormExtraRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Extra{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
