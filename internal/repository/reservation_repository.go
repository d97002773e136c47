package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

// ConflictScope: по какому владельцу ищутся пересечения.
type ConflictScope string

const (
	ScopeRoom ConflictScope = "room_id"
	ScopeUser ConflictScope = "user_id"
)

type ReservationRepository interface {
	// Создать бронь вместе со ссылками на доп. услуги.
	Create(ctx context.Context, reservation *model.Reservation) error
	// Получить бронь по ID (с доп. услугами).
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Все брони пользователя, новые сверху.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error)
	// Неотменённые брони зала на дату (включая хвосты с предыдущего дня).
	ListByRoomAndDate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]model.Reservation, error)
	// Подтверждённые брони зала начиная с даты from.
	ListConfirmedByRoomSince(ctx context.Context, roomID uuid.UUID, from time.Time) ([]model.Reservation, error)
	// Неотменённые брони зала, пересекающие окно.
	FindConflictingByRoom(ctx context.Context, roomID uuid.UUID, w calendar.Window, excludeID *uuid.UUID) ([]model.Reservation, error)
	// Неотменённые брони пользователя, пересекающие окно.
	FindConflictingByUser(ctx context.Context, userID uuid.UUID, w calendar.Window, excludeID *uuid.UUID) ([]model.Reservation, error)
	// Обновить статус брони.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error
	// Отвязать доп. услугу от всех броней, вернуть затронутые брони.
	DetachExtra(ctx context.Context, extraID uuid.UUID) ([]uuid.UUID, error)
}

// Реализация на GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	// Доп. услуги не перезаписываются, создаются только строки reservation_extras.
	return mapError(r.db.WithContext(ctx).
		Omit("Room", "User", "Extras.*").
		Create(reservation).
		Error)
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Extras").
		First(&res, "id = ?", id).
		Error
	if err != nil {
		return nil, mapError(err)
	}
	return &res, nil
}

func (r *GormReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Extras").
		Where("user_id = ?", userID).
		Order("reservation_date DESC, start_time DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormReservationRepository) ListByRoomAndDate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]model.Reservation, error) {
	w := calendar.Window{Date: date, From: 0, To: calendar.EndOfDay}
	return r.findConflicting(ctx, ScopeRoom, roomID, w, nil)
}

func (r *GormReservationRepository) ListConfirmedByRoomSince(ctx context.Context, roomID uuid.UUID, from time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, model.ReservationStatusConfirmed).
		Where("reservation_date >= ?", datatypes.Date(calendar.DateOf(from))).
		Order("reservation_date, start_time").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormReservationRepository) FindConflictingByRoom(
	ctx context.Context,
	roomID uuid.UUID,
	w calendar.Window,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	return r.findConflicting(ctx, ScopeRoom, roomID, w, excludeID)
}

func (r *GormReservationRepository) FindConflictingByUser(
	ctx context.Context,
	userID uuid.UUID,
	w calendar.Window,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	return r.findConflicting(ctx, ScopeUser, userID, w, excludeID)
}

// findConflicting ищет брони, занимающие хоть одну минуту окна [w.From, w.To) дня w.Date:
//  1. бронь того же дня без перехода через полночь: обычное пересечение полуинтервалов;
//  2. бронь того же дня с переходом: её часть [start, 24:00);
//  3. бронь предыдущего дня с переходом: её хвост [00:00, end).
//
// Касание концами пересечением не считается.
func (r *GormReservationRepository) findConflicting(
	ctx context.Context,
	scope ConflictScope,
	ownerID uuid.UUID,
	w calendar.Window,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	if w.Empty() {
		return nil, nil
	}

	day := datatypes.Date(calendar.DateOf(w.Date))
	prev := datatypes.Date(calendar.AddDays(w.Date, -1))
	from, to := int(w.From), int(w.To)

	q := r.db.WithContext(ctx).
		Where(string(scope)+" = ?", ownerID).
		Where("status <> ?", model.ReservationStatusCancelled).
		Where(
			"((reservation_date = ? AND start_time <= end_time AND start_time < ? AND end_time > ?)"+
				" OR (reservation_date = ? AND start_time > end_time AND start_time < ?)"+
				" OR (reservation_date = ? AND start_time > end_time AND end_time > ?))",
			day, to, from,
			day, to,
			prev, from,
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var list []model.Reservation
	if err := q.Order("reservation_date, start_time").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormReservationRepository) DetachExtra(ctx context.Context, extraID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("reservation_extras").
		Where("extra_id = ?", extraID).
		Pluck("reservation_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := r.db.WithContext(ctx).
		Exec("DELETE FROM reservation_extras WHERE extra_id = ?", extraID).
		Error; err != nil {
		return nil, err
	}
	return ids, nil
}
