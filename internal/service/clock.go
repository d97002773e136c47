package service

import (
	"time"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
)

// Clock: текущее время и таймзона заведения. В тестах время фиксируется.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.loc())
	}
	return c.Now().In(c.loc())
}

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Clock) today() time.Time {
	return calendar.Today(c.now(), c.loc())
}
