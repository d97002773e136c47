package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
)

// Бизнес-ограничения брони.
const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 120
	MinPartySize       = 2
	MaxPartySize       = 15
	MaxAdvanceDays     = 60
)

// Candidate: предлагаемая бронь до проверки.
type Candidate struct {
	RoomID         uuid.UUID
	UserID         uuid.UUID
	Date           time.Time
	Range          calendar.TimeRange
	NumberOfPeople int
	ExtraIDs       []uuid.UUID
}

// Admission: то, что проверка уже загрузила и что нужно для записи.
type Admission struct {
	Room     *model.Room
	User     *calendar.User
	Extras   []model.Extra
	Date     time.Time
	Duration int
}

// AdmissionValidator проверяет кандидата по порядку, первая ошибка побеждает:
// дата, длительность, размер компании, существование зала и пользователя,
// зал работает, вместимость, пересечения по залу, по пользователю, доп. услуги.
type AdmissionValidator struct {
	clock Clock
}

func NewAdmissionValidator(clock Clock) *AdmissionValidator {
	return &AdmissionValidator{clock: clock}
}

// Validate работает через переданные репозитории: внутри транзакции это
// репозитории транзакции, и зал читается с блокировкой строки.
func (v *AdmissionValidator) Validate(
	ctx context.Context,
	repos repository.Repositories,
	c Candidate,
	forUpdate bool,
) (*Admission, error) {
	date := calendar.DateOf(c.Date)

	// 1-2. Окно дат.
	today := v.clock.today()
	if date.Before(today) {
		return nil, reject(ReasonPastDate, "reservations cannot be made for past dates (%s)", date.Format(time.DateOnly))
	}
	if last := calendar.AddDays(today, MaxAdvanceDays); date.After(last) {
		return nil, reject(ReasonTooFarInAdvance, "reservations can be made at most %d days in advance (until %s)",
			MaxAdvanceDays, last.Format(time.DateOnly))
	}

	// 3. Длительность.
	duration, err := checkRange(c.Range)
	if err != nil {
		return nil, err
	}

	// 4. Размер компании.
	if c.NumberOfPeople < MinPartySize || c.NumberOfPeople > MaxPartySize {
		return nil, reject(ReasonInvalidPartySize, "number of people must be between %d and %d, got %d",
			MinPartySize, MaxPartySize, c.NumberOfPeople)
	}

	// 5. Зал и пользователь.
	room, err := loadRoom(ctx, repos.Rooms, c.RoomID, forUpdate)
	if err != nil {
		return nil, err
	}
	user, err := calendar.ValidateUser(ctx, repos.Users, c.UserID)
	switch {
	case errors.Is(err, calendar.ErrUserNotFound), errors.Is(err, calendar.ErrInvalidUserID):
		return nil, notFound("user", c.UserID)
	case errors.Is(err, calendar.ErrUserInactive):
		return nil, reject(ReasonUserInactive, "user %s cannot make reservations", c.UserID)
	case err != nil:
		return nil, fmt.Errorf("load user %s: %w", c.UserID, err)
	}

	// 6. Зал выведен из работы.
	if !room.InService {
		return nil, reject(ReasonRoomUnavailable, "room %q is not available", room.Name)
	}

	// 7. Вместимость.
	if !room.Fits(c.NumberOfPeople) {
		return nil, reject(ReasonCapacityExceeded, "room %q fits %d to %d people, got %d",
			room.Name, room.MinCapacity, room.MaxCapacity, c.NumberOfPeople)
	}

	// 8-9. Пересечения.
	if err := checkConflicts(ctx, repos.Reservations, room.ID, c.UserID, date, c.Range, nil); err != nil {
		return nil, err
	}

	// 10. Доп. услуги.
	extras, err := loadExtras(ctx, repos.Extras, c.ExtraIDs)
	if err != nil {
		return nil, err
	}

	return &Admission{
		Room:     room,
		User:     user,
		Extras:   extras,
		Date:     date,
		Duration: duration,
	}, nil
}

// checkRange: границы суток и длительность в [MinDurationMinutes, MaxDurationMinutes].
// Диапазон нулевой длины до поиска пересечений не доходит.
func checkRange(r calendar.TimeRange) (int, error) {
	if !r.Start.Valid() || !r.End.Valid() {
		return 0, reject(ReasonInvalidTimeRange, "start and end must be times of day")
	}
	duration := r.DurationMinutes()
	if duration < MinDurationMinutes {
		return 0, reject(ReasonTooShort, "minimum duration is %d minutes, got %d", MinDurationMinutes, duration)
	}
	if duration > MaxDurationMinutes {
		return 0, reject(ReasonTooLong, "maximum duration is %d minutes, got %d", MaxDurationMinutes, duration)
	}
	return duration, nil
}

// checkConflicts: сначала зал, потом пользователь.
func checkConflicts(
	ctx context.Context,
	store repository.ReservationRepository,
	roomID, userID uuid.UUID,
	date time.Time,
	r calendar.TimeRange,
	excludeID *uuid.UUID,
) error {
	roomConflicts, err := FindRoomConflicts(ctx, store, roomID, date, r, excludeID)
	if err != nil {
		return err
	}
	if len(roomConflicts) > 0 {
		return reject(ReasonRoomBooked, "room is already booked for the selected time: %s", describeConflicts(roomConflicts))
	}

	userConflicts, err := FindUserConflicts(ctx, store, userID, date, r, excludeID)
	if err != nil {
		return err
	}
	if len(userConflicts) > 0 {
		return reject(ReasonUserDoubleBooked, "you already have a reservation at that time: %s", describeConflicts(userConflicts))
	}
	return nil
}

func loadRoom(ctx context.Context, rooms repository.RoomRepository, id uuid.UUID, forUpdate bool) (*model.Room, error) {
	var (
		room *model.Room
		err  error
	)
	if forUpdate {
		room, err = rooms.GetByIDForUpdate(ctx, id)
	} else {
		room, err = rooms.GetByID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("room", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", id, err)
	}
	return room, nil
}

// loadExtras: повторяющиеся id схлопываются, порядок сохраняется.
func loadExtras(ctx context.Context, store repository.ExtraRepository, ids []uuid.UUID) ([]model.Extra, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := store.ListByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load extras: %w", err)
	}
	byID := make(map[uuid.UUID]model.Extra, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}

	extras := make([]model.Extra, 0, len(unique))
	for _, id := range unique {
		e, ok := byID[id]
		if !ok {
			return nil, notFound("extra", id)
		}
		if !e.IsAvailable {
			return nil, reject(ReasonExtraUnavailable, "extra %q is not available", e.Name)
		}
		extras = append(extras, e)
	}
	return extras, nil
}
