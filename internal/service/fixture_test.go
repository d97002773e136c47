package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/db"
	"github.com/PpaulaPulido/karaoke-reservations/internal/events"
	"github.com/PpaulaPulido/karaoke-reservations/internal/lock"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []events.Message
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.Type)
	}
	return out
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	repos     repository.Repositories
	publisher *recordingPublisher
	svc       *ReservationService
	rooms     *RoomService
	extras    *ExtraService

	mu  sync.Mutex
	now time.Time
}

// Сейчас 15.10.2026 12:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        gdb,
		repos:     repository.NewRepositories(gdb),
		publisher: &recordingPublisher{},
		now:       time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}
	clock := Clock{Location: time.UTC, Now: f.clockNow}
	tx := repository.NewGormTransactor(gdb)

	f.svc = NewReservationService(f.repos, tx, lock.NewLocalLocker(), f.publisher, clock)
	f.rooms = NewRoomService(f.repos, tx, f.publisher)
	f.extras = NewExtraService(f.repos, tx, f.publisher)
	return f
}

func (f *fixture) clockNow() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) setNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *fixture) today() time.Time {
	return calendar.DateOf(f.clockNow())
}

func (f *fixture) room(name string, minCap, maxCap int, pricePerHour int64) *model.Room {
	f.t.Helper()
	r, err := f.rooms.Create(f.ctx, RoomInput{
		Name:         name,
		MinCapacity:  minCap,
		MaxCapacity:  maxCap,
		PricePerHour: pricePerHour,
	})
	require.NoError(f.t, err)
	return r
}

func (f *fixture) user(email string) *model.User {
	f.t.Helper()
	u := &model.User{Email: email, DisplayName: email}
	require.NoError(f.t, f.repos.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) extra(name string, price int64, available bool) *model.Extra {
	f.t.Helper()
	e, err := f.extras.Create(f.ctx, ExtraInput{Name: name, Type: "food", Price: price, IsAvailable: available})
	require.NoError(f.t, err)
	return e
}

func (f *fixture) reload(id uuid.UUID) *model.Reservation {
	f.t.Helper()
	r, err := f.svc.Get(f.ctx, id)
	require.NoError(f.t, err)
	return r
}

func (f *fixture) roomAvailable(id uuid.UUID) bool {
	f.t.Helper()
	r, err := f.repos.Rooms.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return r.IsAvailable
}

func tod(h, m int) calendar.TimeOfDay {
	return calendar.TimeOfDay(h*60 + m)
}

func rng(sh, sm, eh, em int) calendar.TimeRange {
	return calendar.TimeRange{Start: tod(sh, sm), End: tod(eh, em)}
}

func candidate(room *model.Room, user *model.User, date time.Time, r calendar.TimeRange, people int, extras ...uuid.UUID) Candidate {
	return Candidate{
		RoomID:         room.ID,
		UserID:         user.ID,
		Date:           date,
		Range:          r,
		NumberOfPeople: people,
		ExtraIDs:       extras,
	}
}

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRejected), "expected rejection, got %v", err)
	got, _ := ReasonOf(err)
	require.Equal(t, want, got, "message: %v", err)
}
