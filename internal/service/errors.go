package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected: бронь не прошла бизнес-правила. Ошибка пользователя, не сбой.
	ErrRejected = errors.New("rejected")
	// ErrNotFound: зал, бронь, пользователь или услуга не существуют.
	ErrNotFound = errors.New("not found")
	// ErrBusy: не удалось взять блокировку, можно повторить.
	ErrBusy = errors.New("resource busy, retry later")
)

// Reason: машинный код отказа.
type Reason string

const (
	ReasonPastDate          Reason = "past_date"
	ReasonTooFarInAdvance   Reason = "too_far_in_advance"
	ReasonInvalidTimeRange  Reason = "invalid_time_range"
	ReasonTooShort          Reason = "too_short"
	ReasonTooLong           Reason = "too_long"
	ReasonInvalidPartySize  Reason = "invalid_party_size"
	ReasonUserInactive      Reason = "user_inactive"
	ReasonRoomUnavailable   Reason = "room_unavailable"
	ReasonCapacityExceeded  Reason = "capacity_exceeded"
	ReasonRoomBooked        Reason = "room_booked"
	ReasonUserDoubleBooked  Reason = "user_double_booked"
	ReasonExtraUnavailable  Reason = "extra_unavailable"
	ReasonNotConfirmed      Reason = "not_confirmed"
	ReasonNotCompleted      Reason = "not_completed"
	ReasonNotCancelled      Reason = "not_cancelled"
	ReasonCannotCancelPast  Reason = "cannot_cancel_past"
	ReasonCannotCompleteYet Reason = "cannot_complete_future"
	ReasonInvalidRoom       Reason = "invalid_room"
	ReasonInvalidExtra      Reason = "invalid_extra"
	ReasonDuplicateName     Reason = "duplicate_name"
	ReasonInvalidQuery      Reason = "invalid_query"
)

// IsValidation: отказ из-за самих входных данных, а не состояния системы.
func (r Reason) IsValidation() bool {
	switch r {
	case ReasonPastDate, ReasonTooFarInAdvance, ReasonInvalidTimeRange, ReasonTooShort,
		ReasonTooLong, ReasonInvalidPartySize, ReasonInvalidRoom, ReasonInvalidExtra,
		ReasonInvalidQuery:
		return true
	}
	return false
}

type RejectedError struct {
	Reason  Reason
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func reject(reason Reason, format string, args ...any) error {
	return &RejectedError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, id fmt.Stringer) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// ReasonOf достаёт код отказа из цепочки ошибок.
func ReasonOf(err error) (Reason, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}
