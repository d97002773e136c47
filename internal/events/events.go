// Package events публикует события жизненного цикла броней наружу.
// Строка аудита пишется в транзакции; публикация идёт уже после коммита.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

// Message: полезная нагрузка события для брокера.
type Message struct {
	ID            uuid.UUID       `json:"id"`
	Type          model.EventType `json:"type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ReservationID *uuid.UUID      `json:"reservation_id,omitempty"`
	RoomID        *uuid.UUID      `json:"room_id,omitempty"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}

// FromEvent собирает сообщение из записи аудита.
func FromEvent(e *model.Event) Message {
	msg := Message{
		ID:            e.ID,
		Type:          e.EventType,
		OccurredAt:    e.CreatedAt.UTC(),
		ReservationID: e.ReservationID,
		RoomID:        e.RoomID,
		UserID:        e.UserID,
	}
	if len(e.Details) > 0 {
		msg.Details = json.RawMessage(e.Details)
	}
	return msg
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LogPublisher только пишет событие в лог. Используется, когда брокера нет.
type LogPublisher struct {
	log logrus.FieldLogger
}

func NewLogPublisher(log logrus.FieldLogger) *LogPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	fields := logrus.Fields{
		"event_id":   msg.ID,
		"event_type": msg.Type,
	}
	if msg.ReservationID != nil {
		fields["reservation_id"] = *msg.ReservationID
	}
	if msg.RoomID != nil {
		fields["room_id"] = *msg.RoomID
	}
	p.log.WithFields(fields).Info("event published")
	return nil
}
