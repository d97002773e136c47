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

type ExtraInput struct {
	Name        string
	Type        string
	Description string
	Price       int64 // центы
	IsAvailable bool
}

type ExtraService struct {
	repos     repository.Repositories
	tx        repository.Transactor
	publisher events.Publisher
	log       logrus.FieldLogger
}

func NewExtraService(repos repository.Repositories, tx repository.Transactor, publisher events.Publisher) *ExtraService {
	return &ExtraService{
		repos:     repos,
		tx:        tx,
		publisher: publisher,
		log:       logrus.StandardLogger(),
	}
}

func (s *ExtraService) Create(ctx context.Context, in ExtraInput) (*model.Extra, error) {
	name := strings.TrimSpace(in.Name)
	typ := strings.TrimSpace(in.Type)
	if name == "" || typ == "" {
		return nil, reject(ReasonInvalidExtra, "extra name and type are required")
	}
	if in.Price < 0 {
		return nil, reject(ReasonInvalidExtra, "extra price cannot be negative")
	}

	e := &model.Extra{
		Name:        name,
		Type:        typ,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		IsAvailable: in.IsAvailable,
	}
	if err := s.repos.Extras.Create(ctx, e); err != nil {
		return nil, logFailure(s.log, fmt.Errorf("create extra: %w", err))
	}
	return e, nil
}

func (s *ExtraService) Get(ctx context.Context, id uuid.UUID) (*model.Extra, error) {
	return s.get(ctx, s.repos, id)
}

func (s *ExtraService) get(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*model.Extra, error) {
	e, err := repos.Extras.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("extra", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load extra %s: %w", id, err)
	}
	return e, nil
}

func (s *ExtraService) List(ctx context.Context) ([]model.Extra, error) {
	list, err := s.repos.Extras.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extras: %w", err)
	}
	return list, nil
}

func (s *ExtraService) ListByType(ctx context.Context, extraType string) ([]model.Extra, error) {
	list, err := s.repos.Extras.ListByType(ctx, extraType)
	if err != nil {
		return nil, fmt.Errorf("list extras of type %q: %w", extraType, err)
	}
	return list, nil
}

func (s *ExtraService) Types(ctx context.Context) ([]string, error) {
	types, err := s.repos.Extras.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extra types: %w", err)
	}
	return types, nil
}

func (s *ExtraService) SetAvailable(ctx context.Context, id uuid.UUID, available bool) (*model.Extra, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Extras.SetAvailable(ctx, id, available); err != nil {
		return nil, fmt.Errorf("update extra %s: %w", id, err)
	}
	e.IsAvailable = available
	return e, nil
}

// Delete удаляет услугу и отвязывает её от всех броней в одной транзакции.
// Сами брони и их цена не меняются. Возвращает затронутые брони.
func (s *ExtraService) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	log := s.log.WithFields(logrus.Fields{"op": "delete_extra", "extra_id": id})

	var (
		detached []uuid.UUID
		event    *model.Event
	)
	err := s.tx.InTx(ctx, func(repos repository.Repositories) error {
		e, err := s.get(ctx, repos, id)
		if err != nil {
			return err
		}
		detached, err = repos.Reservations.DetachExtra(ctx, id)
		if err != nil {
			return fmt.Errorf("detach extra %s: %w", id, err)
		}
		if err := repos.Extras.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete extra %s: %w", id, err)
		}

		event, err = writeEvent(ctx, repos, &model.Event{EventType: model.EventTypeExtraDeleted}, map[string]any{
			"extra_id":     e.ID,
			"name":         e.Name,
			"reservations": detached,
		})
		return err
	})
	if err != nil {
		return nil, logFailure(log, err)
	}

	publishEvent(ctx, s.publisher, s.log, event)
	log.WithField("detached", len(detached)).Info("extra deleted")
	return detached, nil
}
