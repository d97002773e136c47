package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
)

func TestCreate_DurationBounds(t *testing.T) {
	cases := []struct {
		name   string
		r      calendar.TimeRange
		reason Reason // пусто: бронь принимается
	}{
		{"30 minutes", rng(18, 0, 18, 30), ""},
		{"29 minutes", rng(18, 0, 18, 29), ReasonTooShort},
		{"120 minutes", rng(18, 0, 20, 0), ""},
		{"121 minutes", rng(18, 0, 20, 1), ReasonTooLong},
		{"zero length", rng(18, 0, 18, 0), ReasonTooShort},
		{"120 across midnight", rng(23, 0, 1, 0), ""},
		{"121 across midnight", rng(23, 0, 1, 1), ReasonTooLong},
		{"30 up to midnight", rng(23, 30, 0, 0), ""},
		{"29 up to midnight", rng(23, 31, 0, 0), ReasonTooShort},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			room := f.room("A", 2, 6, 2000)
			user := f.user("a@example.com")

			res, err := f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), 1), c.r, 4))
			if c.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, c.r.DurationMinutes(), res.DurationMinutes)
				return
			}
			requireReason(t, err, c.reason)
		})
	}
}

func TestCreate_DateBounds(t *testing.T) {
	cases := []struct {
		name   string
		offset int
		reason Reason
	}{
		{"today", 0, ""},
		{"yesterday", -1, ReasonPastDate},
		{"today+60", 60, ""},
		{"today+61", 61, ReasonTooFarInAdvance},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			room := f.room("A", 2, 6, 2000)
			user := f.user("a@example.com")

			_, err := f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), c.offset), rng(20, 0, 21, 0), 4))
			if c.reason == "" {
				require.NoError(t, err)
				return
			}
			requireReason(t, err, c.reason)
		})
	}
}

func TestCreate_TodayUsesBusinessTimezone(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")

	// 02:00 UTC 16.10, а в UTC-5 ещё 21:00 15.10.
	f.setNow(time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC))
	clock := Clock{Location: time.FixedZone("UTC-5", -5*3600), Now: f.clockNow}
	f.svc.clock = clock
	f.svc.validator = NewAdmissionValidator(clock)

	_, err := f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), -1), rng(22, 0, 23, 0), 4))
	require.NoError(t, err)

	// А по UTC это было бы вчера.
	_, err = f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), -2), rng(22, 0, 23, 0), 4))
	requireReason(t, err, ReasonPastDate)
}

func TestCreate_PartySize(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	d := calendar.AddDays(f.today(), 3)

	_, err := f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 1))
	requireReason(t, err, ReasonInvalidPartySize)

	_, err = f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 16))
	requireReason(t, err, ReasonInvalidPartySize)

	// зал [2,6], компания 7, пересечений нет
	_, err = f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 7))
	requireReason(t, err, ReasonCapacityExceeded)

	big := f.room("Big", 8, 15, 5000)
	_, err = f.svc.Create(f.ctx, candidate(big, user, d, rng(20, 0, 21, 0), 7))
	requireReason(t, err, ReasonCapacityExceeded)
}

func TestCreate_CheckOrder(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	d := calendar.AddDays(f.today(), 3)

	// дата проверяется раньше длительности
	_, err := f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), -1), rng(20, 0, 20, 10), 4))
	requireReason(t, err, ReasonPastDate)

	// размер компании раньше существования зала
	ghost := candidate(room, user, d, rng(20, 0, 21, 0), 20)
	ghost.RoomID = uuid.New()
	_, err = f.svc.Create(f.ctx, ghost)
	requireReason(t, err, ReasonInvalidPartySize)

	ghost.NumberOfPeople = 4
	_, err = f.svc.Create(f.ctx, ghost)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "room", nf.Entity)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRejected)

	stranger := candidate(room, user, d, rng(20, 0, 21, 0), 4)
	stranger.UserID = uuid.New()
	_, err = f.svc.Create(f.ctx, stranger)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Entity)

	// выключенный зал отклоняется раньше вместимости
	_, err = f.rooms.SetInService(f.ctx, room.ID, false)
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 9))
	requireReason(t, err, ReasonRoomUnavailable)
}

func TestCreate_InactiveUser(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	require.NoError(t, f.repos.Users.SetStatus(f.ctx, user.ID, calendar.UserStatusBlocked))

	_, err := f.svc.Create(f.ctx, candidate(room, user, calendar.AddDays(f.today(), 1), rng(20, 0, 21, 0), 4))
	requireReason(t, err, ReasonUserInactive)
}

func TestCreate_RoomConflictThenUserConflict(t *testing.T) {
	f := newFixture(t)
	roomA := f.room("A", 2, 6, 2000)
	roomB := f.room("B", 2, 6, 2000)
	ana := f.user("ana@example.com")
	bob := f.user("bob@example.com")
	d := calendar.AddDays(f.today(), 2)

	_, err := f.svc.Create(f.ctx, candidate(roomA, ana, d, rng(20, 0, 21, 30), 4))
	require.NoError(t, err)

	// тот же зал, другой пользователь
	_, err = f.svc.Create(f.ctx, candidate(roomA, bob, d, rng(21, 0, 22, 0), 4))
	requireReason(t, err, ReasonRoomBooked)

	// тот же пользователь, другой зал
	_, err = f.svc.Create(f.ctx, candidate(roomB, ana, d, rng(21, 0, 22, 0), 4))
	requireReason(t, err, ReasonUserDoubleBooked)

	// встык: не пересечение
	_, err = f.svc.Create(f.ctx, candidate(roomA, bob, d, rng(21, 30, 22, 30), 4))
	require.NoError(t, err)

	// один зал на один слот: второй зал в то же время свободен
	_, err = f.svc.Create(f.ctx, candidate(roomB, bob, d, rng(18, 0, 19, 0), 4))
	require.NoError(t, err)
}

func TestCreate_MidnightConflicts(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	ana := f.user("ana@example.com")
	bob := f.user("bob@example.com")
	d := calendar.AddDays(f.today(), 2)
	next := calendar.AddDays(d, 1)

	_, err := f.svc.Create(f.ctx, candidate(room, ana, d, rng(23, 0, 1, 0), 4))
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, candidate(room, bob, next, rng(0, 30, 1, 30), 4))
	requireReason(t, err, ReasonRoomBooked)

	_, err = f.svc.Create(f.ctx, candidate(room, bob, d, rng(22, 0, 23, 30), 4))
	requireReason(t, err, ReasonRoomBooked)

	_, err = f.svc.Create(f.ctx, candidate(room, bob, d, rng(23, 30, 0, 30), 4))
	requireReason(t, err, ReasonRoomBooked)

	_, err = f.svc.Create(f.ctx, candidate(room, bob, next, rng(1, 0, 2, 0), 4))
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, candidate(room, bob, d, rng(21, 30, 23, 0), 4))
	require.NoError(t, err)
}

func TestCreate_Extras(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	d := calendar.AddDays(f.today(), 2)

	off := f.extra("Cake", 2500, false)
	_, err := f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 4, off.ID))
	requireReason(t, err, ReasonExtraUnavailable)

	_, err = f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 4, uuid.New()))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "extra", nf.Entity)

	// отказ ничего не записал
	list, err := f.svc.ListByUser(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, f.roomAvailable(room.ID))

	pizza := f.extra("Pizza", 1500, true)
	res, err := f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 4, pizza.ID, pizza.ID))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pizza.ID}, f.reload(res.ID).ExtraIDs())
	assert.Equal(t, int64(2000+1500), res.TotalPrice)
}

func TestIsRoomAvailable(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	d := calendar.AddDays(f.today(), 2)

	_, err := f.svc.Create(f.ctx, candidate(room, user, d, rng(23, 0, 1, 0), 4))
	require.NoError(t, err)

	ok, err := f.svc.IsRoomAvailable(f.ctx, room.ID, calendar.AddDays(d, 1), rng(0, 0, 0, 45))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.IsRoomAvailable(f.ctx, room.ID, d, rng(20, 0, 22, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.rooms.SetInService(f.ctx, room.ID, false)
	require.NoError(t, err)
	ok, err = f.svc.IsRoomAvailable(f.ctx, room.ID, d, rng(20, 0, 22, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.IsRoomAvailable(f.ctx, uuid.New(), d, rng(20, 0, 22, 0))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsRoomAvailable_RejectsInvalidRange(t *testing.T) {
	f := newFixture(t)
	room := f.room("A", 2, 6, 2000)
	user := f.user("a@example.com")
	d := calendar.AddDays(f.today(), 1)

	_, err := f.svc.Create(f.ctx, candidate(room, user, d, rng(20, 0, 21, 0), 4))
	require.NoError(t, err)

	cases := []struct {
		name   string
		r      calendar.TimeRange
		reason Reason
	}{
		{"zero length inside booking", rng(20, 30, 20, 30), ReasonTooShort},
		{"29 minutes", rng(22, 0, 22, 29), ReasonTooShort},
		{"121 minutes", rng(22, 0, 0, 1), ReasonTooLong},
		{"start out of day", calendar.TimeRange{Start: calendar.TimeOfDay(calendar.MinutesPerDay), End: tod(1, 0)}, ReasonInvalidTimeRange},
		{"negative end", calendar.TimeRange{Start: tod(20, 0), End: calendar.TimeOfDay(-1)}, ReasonInvalidTimeRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, err := f.svc.IsRoomAvailable(f.ctx, room.ID, d, c.r)
			requireReason(t, err, c.reason)
			assert.False(t, ok)
		})
	}

	// на границах длительности ответ даёт детектор пересечений
	ok, err := f.svc.IsRoomAvailable(f.ctx, room.ID, d, rng(20, 30, 21, 0))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.svc.IsRoomAvailable(f.ctx, room.ID, d, rng(21, 0, 23, 0))
	require.NoError(t, err)
	assert.True(t, ok)
}
