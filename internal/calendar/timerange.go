package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// MinutesPerDay: длина суток в минутах.
const MinutesPerDay = 24 * 60

// TimeOfDay: время суток в минутах от полуночи, [0, 1440).
type TimeOfDay int

const (
	minTimeOfDay TimeOfDay = 0
	// 23:59:59.999, усечённое до минут.
	maxTimeOfDay TimeOfDay = MinutesPerDay - 1

	// EndOfDay: исключающая правая граница окна, доходящего до полуночи.
	EndOfDay TimeOfDay = MinutesPerDay
)

// NewTimeOfDay собирает время из часов и минут.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay разбирает строку вида "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Valid() bool {
	return t >= minTimeOfDay && t <= maxTimeOfDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeOfDay, int(t))
	}
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeRange: пара времён начала и конца на одну календарную дату.
// End < Start означает, что интервал переходит через полночь.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewTimeRange проверяет границы. Нулевая длина допустима здесь
// и отсекается проверкой длительности.
func NewTimeRange(start, end TimeOfDay) (TimeRange, error) {
	if !start.Valid() || !end.Valid() {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

func (r TimeRange) CrossesMidnight() bool {
	return r.End < r.Start
}

// DurationMinutes считает длительность в минутах.
// Для перехода через полночь: (23:59 − start) + (end − 00:00) + 1,
// что на минутной сетке совпадает с 1440 − start + end.
func (r TimeRange) DurationMinutes() int {
	if !r.CrossesMidnight() {
		return int(r.End - r.Start)
	}
	return int(maxTimeOfDay-r.Start) + int(r.End-minTimeOfDay) + 1
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Window: непересекающий полночь кусок интервала на конкретный день: [From, To).
type Window struct {
	Date time.Time
	From TimeOfDay
	To   TimeOfDay
}

func (w Window) Empty() bool {
	return w.To <= w.From
}

// Windows раскладывает интервал на окна по дням:
// без перехода через полночь: одно окно на date,
// с переходом: [start, 24:00) на date и [00:00, end) на date+1.
// Пустые окна отбрасываются.
func (r TimeRange) Windows(date time.Time) []Window {
	date = DateOf(date)

	var ws []Window
	if !r.CrossesMidnight() {
		ws = append(ws, Window{Date: date, From: r.Start, To: r.End})
	} else {
		ws = append(ws,
			Window{Date: date, From: r.Start, To: EndOfDay},
			Window{Date: AddDays(date, 1), From: minTimeOfDay, To: r.End},
		)
	}

	out := ws[:0]
	for _, w := range ws {
		if !w.Empty() {
			out = append(out, w)
		}
	}
	return out
}

// Span возвращает моменты начала и конца интервала в заданной таймзоне.
func (r TimeRange) Span(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	start := time.Date(y, m, d, r.Start.Hour(), r.Start.Minute(), 0, 0, loc)
	return start, start.Add(time.Duration(r.DurationMinutes()) * time.Minute)
}

// DateOf отбрасывает время и возвращает полночь той же даты в UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today: текущая дата в таймзоне loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

func AddDays(date time.Time, days int) time.Time {
	return DateOf(date).AddDate(0, 0, days)
}

// ParseDate разбирает дату вида "2006-01-02".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
