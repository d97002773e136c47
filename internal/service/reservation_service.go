package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/events"
	"github.com/PpaulaPulido/karaoke-reservations/internal/lock"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
)

// ReservationService: жизненный цикл брони:
// CONFIRMED -> CANCELLED | COMPLETED, плюс административные откаты обратно в CONFIRMED.
type ReservationService struct {
	repos     repository.Repositories
	tx        repository.Transactor
	locker    lock.Locker
	publisher events.Publisher
	validator *AdmissionValidator
	clock     Clock
	log       logrus.FieldLogger
}

func NewReservationService(
	repos repository.Repositories,
	tx repository.Transactor,
	locker lock.Locker,
	publisher events.Publisher,
	clock Clock,
) *ReservationService {
	return &ReservationService{
		repos:     repos,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		validator: NewAdmissionValidator(clock),
		clock:     clock,
		log:       logrus.StandardLogger(),
	}
}

// WithLogger подменяет логгер (например, на тестовый).
func (s *ReservationService) WithLogger(log logrus.FieldLogger) *ReservationService {
	s.log = log
	return s
}

// Create проверяет кандидата и записывает бронь в CONFIRMED.
// Зал и пользователь заблокированы на время проверки и коммита.
func (s *ReservationService) Create(ctx context.Context, c Candidate) (*model.Reservation, error) {
	log := s.log.WithFields(logrus.Fields{
		"op":      "create",
		"room_id": c.RoomID,
		"user_id": c.UserID,
		"date":    c.Date.Format(time.DateOnly),
		"range":   c.Range.String(),
	})

	release, err := s.acquire(ctx, c.RoomID, c.UserID)
	if err != nil {
		return nil, s.fail(log, err)
	}
	defer release()

	var (
		created *model.Reservation
		event   *model.Event
	)
	err = s.tx.InTx(ctx, func(repos repository.Repositories) error {
		adm, err := s.validator.Validate(ctx, repos, c, true)
		if err != nil {
			return err
		}

		res := &model.Reservation{
			RoomID:          adm.Room.ID,
			UserID:          adm.User.ID,
			ReservationDate: datatypes.Date(adm.Date),
			StartTime:       c.Range.Start,
			EndTime:         c.Range.End,
			DurationMinutes: adm.Duration,
			NumberOfPeople:  c.NumberOfPeople,
			Status:          model.ReservationStatusConfirmed,
			TotalPrice:      CalculatePrice(adm.Room.PricePerHour, adm.Duration, adm.Extras),
			Extras:          adm.Extras,
		}
		if err := repos.Reservations.Create(ctx, res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		if err := repos.Rooms.SetAvailable(ctx, adm.Room.ID, false); err != nil {
			return fmt.Errorf("mark room %s occupied: %w", adm.Room.ID, err)
		}

		event, err = s.audit(ctx, repos, model.EventTypeReservationCreated, res, map[string]any{
			"total_price":      res.TotalPrice,
			"duration_minutes": res.DurationMinutes,
			"number_of_people": res.NumberOfPeople,
			"extras":           res.ExtraIDs(),
		})
		if err != nil {
			return err
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, s.fail(log, err)
	}

	s.publish(ctx, event)
	log.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"total_price":    created.TotalPrice,
	}).Info("reservation created")
	return created, nil
}

// Cancel: только CONFIRMED и только пока бронь не началась.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, "cancel", id, model.EventTypeReservationCancelled,
		func(ctx context.Context, repos repository.Repositories, res *model.Reservation) error {
			if res.Status != model.ReservationStatusConfirmed {
				return reject(ReasonNotConfirmed, "only confirmed reservations can be cancelled, this one is %s", res.Status)
			}
			start, _ := res.Span(s.clock.loc())
			if !start.After(s.clock.now()) {
				return reject(ReasonCannotCancelPast, "cannot cancel a reservation that has already started")
			}
			if err := repos.Reservations.UpdateStatus(ctx, res.ID, model.ReservationStatusCancelled); err != nil {
				return fmt.Errorf("cancel reservation: %w", err)
			}
			res.Status = model.ReservationStatusCancelled
			return s.refreshRoomAvailability(ctx, repos, res.RoomID)
		})
}

// Complete: только CONFIRMED и только после окончания.
// Занятость зала не трогается: время брони уже истекло само.
func (s *ReservationService) Complete(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, "complete", id, model.EventTypeReservationCompleted,
		func(ctx context.Context, repos repository.Repositories, res *model.Reservation) error {
			if res.Status != model.ReservationStatusConfirmed {
				return reject(ReasonNotConfirmed, "only confirmed reservations can be completed, this one is %s", res.Status)
			}
			_, end := res.Span(s.clock.loc())
			if end.After(s.clock.now()) {
				return reject(ReasonCannotCompleteYet, "cannot complete a reservation before it ends")
			}
			if err := repos.Reservations.UpdateStatus(ctx, res.ID, model.ReservationStatusCompleted); err != nil {
				return fmt.Errorf("complete reservation: %w", err)
			}
			res.Status = model.ReservationStatusCompleted
			return nil
		})
}

// UndoComplete возвращает COMPLETED в CONFIRMED после повторной проверки пересечений.
func (s *ReservationService) UndoComplete(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, "undo_complete", id, model.EventTypeCompletionUndone,
		func(ctx context.Context, repos repository.Repositories, res *model.Reservation) error {
			if res.Status != model.ReservationStatusCompleted {
				return reject(ReasonNotCompleted, "only completed reservations can be reopened, this one is %s", res.Status)
			}
			return s.reconfirm(ctx, repos, res)
		})
}

// RevertCancelled возвращает CANCELLED в CONFIRMED, если слот за это время никто не занял.
func (s *ReservationService) RevertCancelled(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, "revert_cancelled", id, model.EventTypeCancellationReverted,
		func(ctx context.Context, repos repository.Repositories, res *model.Reservation) error {
			if res.Status != model.ReservationStatusCancelled {
				return reject(ReasonNotCancelled, "only cancelled reservations can be restored, this one is %s", res.Status)
			}
			return s.reconfirm(ctx, repos, res)
		})
}

func (s *ReservationService) reconfirm(ctx context.Context, repos repository.Repositories, res *model.Reservation) error {
	if err := checkConflicts(ctx, repos.Reservations, res.RoomID, res.UserID, res.Date(), res.Range(), &res.ID); err != nil {
		return err
	}
	if err := repos.Reservations.UpdateStatus(ctx, res.ID, model.ReservationStatusConfirmed); err != nil {
		return fmt.Errorf("confirm reservation: %w", err)
	}
	res.Status = model.ReservationStatusConfirmed
	return s.refreshRoomAvailability(ctx, repos, res.RoomID)
}

type transitionFunc func(ctx context.Context, repos repository.Repositories, res *model.Reservation) error

// transition: загрузить бронь, взять блокировки зала и пользователя,
// в транзакции перечитать и применить fn, записать аудит, после коммита опубликовать.
func (s *ReservationService) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	eventType model.EventType,
	fn transitionFunc,
) (*model.Reservation, error) {
	log := s.log.WithFields(logrus.Fields{
		"op":             op,
		"reservation_id": id,
	})

	current, err := s.get(ctx, s.repos, id)
	if err != nil {
		return nil, s.fail(log, err)
	}

	release, err := s.acquire(ctx, current.RoomID, current.UserID)
	if err != nil {
		return nil, s.fail(log, err)
	}
	defer release()

	var (
		updated *model.Reservation
		event   *model.Event
	)
	err = s.tx.InTx(ctx, func(repos repository.Repositories) error {
		res, err := s.get(ctx, repos, id)
		if err != nil {
			return err
		}
		from := res.Status
		if err := fn(ctx, repos, res); err != nil {
			return err
		}
		event, err = s.audit(ctx, repos, eventType, res, map[string]any{
			"from": from,
			"to":   res.Status,
		})
		if err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, s.fail(log, err)
	}

	s.publish(ctx, event)
	log.WithField("status", updated.Status).Info("reservation updated")
	return updated, nil
}

// refreshRoomAvailability: зал свободен, если у него нет подтверждённых броней,
// которые ещё идут или впереди.
func (s *ReservationService) refreshRoomAvailability(ctx context.Context, repos repository.Repositories, roomID uuid.UUID) error {
	now := s.clock.now()
	// Бронь со вчерашней даты может ещё идти после полуночи.
	list, err := repos.Reservations.ListConfirmedByRoomSince(ctx, roomID, calendar.AddDays(s.clock.today(), -1))
	if err != nil {
		return fmt.Errorf("list room reservations: %w", err)
	}

	busy := false
	for i := range list {
		if _, end := list[i].Span(s.clock.loc()); end.After(now) {
			busy = true
			break
		}
	}
	if err := repos.Rooms.SetAvailable(ctx, roomID, !busy); err != nil {
		return fmt.Errorf("update room %s availability: %w", roomID, err)
	}
	return nil
}

// IsRoomAvailable: зал существует, работает и свободен в указанное время.
// Диапазон проверяется так же, как при записи: невалидный даёт RejectedError
// (invalid_time_range, too_short, too_long), а не false.
func (s *ReservationService) IsRoomAvailable(ctx context.Context, roomID uuid.UUID, date time.Time, r calendar.TimeRange) (bool, error) {
	if _, err := checkRange(r); err != nil {
		return false, err
	}
	room, err := loadRoom(ctx, s.repos.Rooms, roomID, false)
	if err != nil {
		return false, err
	}
	if !room.InService {
		return false, nil
	}
	conflicts, err := FindRoomConflicts(ctx, s.repos.Reservations, roomID, date, r, nil)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.get(ctx, s.repos, id)
}

func (s *ReservationService) get(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*model.Reservation, error) {
	res, err := repos.Reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("reservation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load reservation %s: %w", id, err)
	}
	return res, nil
}

func (s *ReservationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	list, err := s.repos.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations of user %s: %w", userID, err)
	}
	return list, nil
}

// ListUpcomingByUser: неотменённые брони пользователя, которые ещё не закончились.
func (s *ReservationService) ListUpcomingByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	list, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()

	var out []model.Reservation
	for i := range list {
		if list[i].Status == model.ReservationStatusCancelled {
			continue
		}
		if _, end := list[i].Span(s.clock.loc()); end.After(now) {
			out = append(out, list[i])
		}
	}
	sortReservations(out, SortDateAsc)
	return out, nil
}

// ListByRoomAndDate: занятость зала на дату, для календаря.
func (s *ReservationService) ListByRoomAndDate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]model.Reservation, error) {
	if _, err := loadRoom(ctx, s.repos.Rooms, roomID, false); err != nil {
		return nil, err
	}
	list, err := s.repos.Reservations.ListByRoomAndDate(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations of room %s: %w", roomID, err)
	}
	return list, nil
}

func (s *ReservationService) acquire(ctx context.Context, roomID, userID uuid.UUID) (func(), error) {
	release, err := s.locker.Acquire(ctx, lock.RoomKey(roomID), lock.UserKey(userID))
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return release, nil
}

func (s *ReservationService) audit(
	ctx context.Context,
	repos repository.Repositories,
	eventType model.EventType,
	res *model.Reservation,
	details map[string]any,
) (*model.Event, error) {
	return writeEvent(ctx, repos, &model.Event{
		EventType:     eventType,
		UserID:        &res.UserID,
		ReservationID: &res.ID,
		RoomID:        &res.RoomID,
	}, details)
}

func (s *ReservationService) publish(ctx context.Context, e *model.Event) {
	publishEvent(ctx, s.publisher, s.log, e)
}

func (s *ReservationService) fail(log logrus.FieldLogger, err error) error {
	return logFailure(log, err)
}

func writeEvent(ctx context.Context, repos repository.Repositories, e *model.Event, details map[string]any) (*model.Event, error) {
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("marshal event details: %w", err)
		}
		e.Details = datatypes.JSON(b)
	}
	if err := repos.Events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("write %s event: %w", e.EventType, err)
	}
	return e, nil
}

// publishEvent вызывается после коммита; ошибка брокера не откатывает бронь.
func publishEvent(ctx context.Context, p events.Publisher, log logrus.FieldLogger, e *model.Event) {
	if p == nil || e == nil {
		return
	}
	if err := p.Publish(ctx, events.FromEvent(e)); err != nil {
		log.WithFields(logrus.Fields{
			"event_id":   e.ID,
			"event_type": e.EventType,
			"error":      err,
		}).Warn("event publish failed")
	}
}

// logFailure: отказы и "не найдено": ожидаемые, пишутся на Info; остальное: Error.
func logFailure(log logrus.FieldLogger, err error) error {
	switch {
	case errors.Is(err, ErrRejected):
		reason, _ := ReasonOf(err)
		log.WithField("reason", reason).Info(err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBusy):
		log.Info(err.Error())
	default:
		log.WithError(err).Error("operation failed")
	}
	return err
}
