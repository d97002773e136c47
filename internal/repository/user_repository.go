package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status calendar.UserStatus) error
	// FindUser: источник для calendar.ValidateUser; (nil, nil), если не найден.
	FindUser(ctx context.Context, id uuid.UUID) (*calendar.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return mapError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *GormUserRepository) SetStatus(ctx context.Context, id uuid.UUID, status calendar.UserStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormUserRepository) FindUser(ctx context.Context, id uuid.UUID) (*calendar.User, error) {
	u, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calendar.User{
		ID:     u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}, nil
}
