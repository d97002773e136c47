package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
)

// FindRoomConflicts возвращает неотменённые брони зала, пересекающие кандидата.
func FindRoomConflicts(
	ctx context.Context,
	store repository.ReservationRepository,
	roomID uuid.UUID,
	date time.Time,
	r calendar.TimeRange,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	return findConflicts(ctx, store, repository.ScopeRoom, roomID, date, r, excludeID)
}

// FindUserConflicts: то же по пользователю, во всех залах.
func FindUserConflicts(
	ctx context.Context,
	store repository.ReservationRepository,
	userID uuid.UUID,
	date time.Time,
	r calendar.TimeRange,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	return findConflicts(ctx, store, repository.ScopeUser, userID, date, r, excludeID)
}

// Кандидат через полночь раскладывается на два окна (date и date+1),
// по каждому идёт свой запрос, результаты объединяются без дублей.
func findConflicts(
	ctx context.Context,
	store repository.ReservationRepository,
	scope repository.ConflictScope,
	ownerID uuid.UUID,
	date time.Time,
	r calendar.TimeRange,
	excludeID *uuid.UUID,
) ([]model.Reservation, error) {
	seen := make(map[uuid.UUID]struct{})
	var out []model.Reservation

	for _, w := range r.Windows(date) {
		var (
			list []model.Reservation
			err  error
		)
		switch scope {
		case repository.ScopeRoom:
			list, err = store.FindConflictingByRoom(ctx, ownerID, w, excludeID)
		case repository.ScopeUser:
			list, err = store.FindConflictingByUser(ctx, ownerID, w, excludeID)
		default:
			return nil, fmt.Errorf("unknown conflict scope %q", scope)
		}
		if err != nil {
			return nil, fmt.Errorf("find %s conflicts on %s: %w", scope, w.Date.Format(time.DateOnly), err)
		}

		for _, res := range list {
			if _, ok := seen[res.ID]; ok {
				continue
			}
			seen[res.ID] = struct{}{}
			out = append(out, res)
		}
	}

	return out, nil
}

func describeConflicts(list []model.Reservation) string {
	first := list[0]
	s := calendar.FormatSlot(first.Date(), first.Range(), false, "")
	if len(list) > 1 {
		s += fmt.Sprintf(" and %d more", len(list)-1)
	}
	return s
}
