package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PpaulaPulido/karaoke-reservations/internal/events"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
)

type RoomInput struct {
	Name         string
	Description  string
	MinCapacity  int
	MaxCapacity  int
	PricePerHour int64 // центы
}

type RoomService struct {
	repos     repository.Repositories
	tx        repository.Transactor
	publisher events.Publisher
	log       logrus.FieldLogger
}

func NewRoomService(repos repository.Repositories, tx repository.Transactor, publisher events.Publisher) *RoomService {
	return &RoomService{
		repos:     repos,
		tx:        tx,
		publisher: publisher,
		log:       logrus.StandardLogger(),
	}
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (*model.Room, error) {
	log := s.log.WithFields(logrus.Fields{"op": "create_room", "name": in.Name})

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, logFailure(log, reject(ReasonInvalidRoom, "room name is required"))
	case in.MinCapacity < MinPartySize || in.MaxCapacity > MaxPartySize:
		return nil, logFailure(log, reject(ReasonInvalidRoom, "capacity must be within %d..%d", MinPartySize, MaxPartySize))
	case in.MinCapacity > in.MaxCapacity:
		return nil, logFailure(log, reject(ReasonInvalidRoom, "min capacity %d exceeds max capacity %d", in.MinCapacity, in.MaxCapacity))
	case in.PricePerHour <= 0:
		return nil, logFailure(log, reject(ReasonInvalidRoom, "price per hour must be positive"))
	}

	room := &model.Room{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		MinCapacity:  in.MinCapacity,
		MaxCapacity:  in.MaxCapacity,
		PricePerHour: in.PricePerHour,
		InService:    true,
		IsAvailable:  true,
	}
	if err := s.repos.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, logFailure(log, reject(ReasonDuplicateName, "room %q already exists", name))
		}
		return nil, logFailure(log, fmt.Errorf("create room: %w", err))
	}

	log.WithField("room_id", room.ID).Info("room created")
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	return loadRoom(ctx, s.repos.Rooms, id, false)
}

func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.repos.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListInService: залы, которые можно бронировать.
func (s *RoomService) ListInService(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.repos.Rooms.ListInService(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list rooms in service: %w", err)
	}
	return rooms, nil
}

// ListForParty: работающие залы, куда помещается компания.
func (s *RoomService) ListForParty(ctx context.Context, people int) ([]model.Room, error) {
	if people < MinPartySize || people > MaxPartySize {
		return nil, reject(ReasonInvalidPartySize, "number of people must be between %d and %d, got %d",
			MinPartySize, MaxPartySize, people)
	}
	rooms, err := s.repos.Rooms.ListInService(ctx, people)
	if err != nil {
		return nil, fmt.Errorf("list rooms for %d people: %w", people, err)
	}
	return rooms, nil
}

func (s *RoomService) CanAccommodate(ctx context.Context, id uuid.UUID, people int) (bool, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return room.Fits(people), nil
}

// SetInService включает или выводит зал из работы.
// Существующие брони не трогаются, новые в выключенный зал не принимаются.
func (s *RoomService) SetInService(ctx context.Context, id uuid.UUID, inService bool) (*model.Room, error) {
	log := s.log.WithFields(logrus.Fields{"op": "set_in_service", "room_id": id, "in_service": inService})

	var (
		room  *model.Room
		event *model.Event
	)
	err := s.tx.InTx(ctx, func(repos repository.Repositories) error {
		var err error
		room, err = loadRoom(ctx, repos.Rooms, id, true)
		if err != nil {
			return err
		}
		if err := repos.Rooms.SetInService(ctx, id, inService); err != nil {
			return fmt.Errorf("update room %s: %w", id, err)
		}
		room.InService = inService

		event, err = writeEvent(ctx, repos, &model.Event{
			EventType: model.EventTypeRoomServiceChanged,
			RoomID:    &room.ID,
		}, map[string]any{"in_service": inService})
		return err
	})
	if err != nil {
		return nil, logFailure(log, err)
	}

	publishEvent(ctx, s.publisher, s.log, event)
	log.Info("room service flag updated")
	return room, nil
}
