package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func mustTOD(t *testing.T, hour, minute int) TimeOfDay {
	t.Helper()
	tod, err := NewTimeOfDay(hour, minute)
	if err != nil {
		t.Fatalf("NewTimeOfDay(%d, %d): %v", hour, minute, err)
	}
	return tod
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

//
// TimeOfDay
//

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]TimeOfDay{
		"00:00": 0,
		"09:05": 9*60 + 5,
		"23:59": 23*60 + 59,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", in, got, want)
		}
		if got.String() != in {
			t.Fatalf("String() = %q, want %q", got.String(), in)
		}
	}

	for _, in := range []string{"24:00", "7pm", "12:60", ""} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q): expected error", in)
		}
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	r := TimeRange{Start: mustTOD(t, 22, 30), End: mustTOD(t, 0, 15)}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"start":"22:30","end":"00:15"}` {
		t.Fatalf("unexpected json: %s", b)
	}

	var back TimeRange
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != r {
		t.Fatalf("got %+v, want %+v", back, r)
	}
}

//
// Длительность
//

func TestDurationMinutes_SameDay(t *testing.T) {
	cases := []struct {
		start, end TimeOfDay
		want       int
	}{
		{mustTOD(t, 18, 0), mustTOD(t, 18, 30), 30},
		{mustTOD(t, 18, 0), mustTOD(t, 18, 29), 29},
		{mustTOD(t, 18, 0), mustTOD(t, 20, 0), 120},
		{mustTOD(t, 18, 0), mustTOD(t, 20, 1), 121},
		{mustTOD(t, 18, 0), mustTOD(t, 18, 0), 0},
	}
	for _, c := range cases {
		r := TimeRange{Start: c.start, End: c.end}
		if r.CrossesMidnight() {
			t.Fatalf("%s must not cross midnight", r)
		}
		if got := r.DurationMinutes(); got != c.want {
			t.Fatalf("%s: duration %d, want %d", r, got, c.want)
		}
	}
}

// Ветка с переходом через полночь включает "+1": на минутной сетке это
// даёт ту же длительность, что и сквозной счёт по часам.
func TestDurationMinutes_CrossingMidnight(t *testing.T) {
	cases := []struct {
		start, end TimeOfDay
		want       int
	}{
		{mustTOD(t, 23, 0), mustTOD(t, 1, 0), 120},
		{mustTOD(t, 23, 0), mustTOD(t, 1, 1), 121},
		{mustTOD(t, 23, 30), mustTOD(t, 0, 0), 30},
		{mustTOD(t, 23, 31), mustTOD(t, 0, 0), 29},
		{mustTOD(t, 23, 59), mustTOD(t, 0, 1), 2},
	}
	for _, c := range cases {
		r := TimeRange{Start: c.start, End: c.end}
		if !r.CrossesMidnight() {
			t.Fatalf("%s must cross midnight", r)
		}
		if got := r.DurationMinutes(); got != c.want {
			t.Fatalf("%s: duration %d, want %d", r, got, c.want)
		}
		if got := MinutesPerDay - int(c.start) + int(c.end); got != c.want {
			t.Fatalf("%s: wall-clock duration %d, want %d", r, got, c.want)
		}
	}
}

//
// Раскладка по дням
//

func TestWindows_SameDay(t *testing.T) {
	d := mustDate(t, "2026-10-20")
	r := TimeRange{Start: mustTOD(t, 20, 0), End: mustTOD(t, 21, 30)}

	ws := r.Windows(d)
	if len(ws) != 1 {
		t.Fatalf("expected 1 window, got %d", len(ws))
	}
	if !ws[0].Date.Equal(d) || ws[0].From != r.Start || ws[0].To != r.End {
		t.Fatalf("unexpected window %+v", ws[0])
	}
}

func TestWindows_CrossingMidnight(t *testing.T) {
	d := mustDate(t, "2026-12-31")
	r := TimeRange{Start: mustTOD(t, 23, 0), End: mustTOD(t, 1, 0)}

	ws := r.Windows(d)
	if len(ws) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(ws))
	}
	if !ws[0].Date.Equal(d) || ws[0].From != r.Start || ws[0].To != EndOfDay {
		t.Fatalf("unexpected first window %+v", ws[0])
	}
	next := mustDate(t, "2027-01-01")
	if !ws[1].Date.Equal(next) || ws[1].From != 0 || ws[1].To != r.End {
		t.Fatalf("unexpected second window %+v", ws[1])
	}
}

func TestWindows_EndingAtMidnightDropsEmptyWindow(t *testing.T) {
	d := mustDate(t, "2026-10-20")
	r := TimeRange{Start: mustTOD(t, 23, 0), End: 0}

	ws := r.Windows(d)
	if len(ws) != 1 {
		t.Fatalf("expected 1 window, got %d: %+v", len(ws), ws)
	}
	if ws[0].To != EndOfDay {
		t.Fatalf("expected window up to midnight, got %+v", ws[0])
	}
}

func TestSpan(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	d := mustDate(t, "2026-10-20")
	r := TimeRange{Start: mustTOD(t, 23, 0), End: mustTOD(t, 0, 30)}

	start, end := r.Span(d, loc)
	if !start.Equal(time.Date(2026, 10, 20, 23, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, 10, 21, 0, 30, 0, 0, loc)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestToday_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 10, 21, 3, 0, 0, 0, time.UTC) // 22:00 20.10 по loc

	got := Today(now, loc)
	if !got.Equal(mustDate(t, "2026-10-20")) {
		t.Fatalf("Today = %v, want 2026-10-20", got)
	}
}

func TestFormatSlot(t *testing.T) {
	d := mustDate(t, "2026-10-20")
	r := TimeRange{Start: mustTOD(t, 23, 0), End: mustTOD(t, 1, 0)}

	got := FormatSlot(d, r, true, "abc")
	want := "Tue 20.10.2026, 23:00–01:00 (+1 day) (ID: abc)"
	if got != want {
		t.Fatalf("FormatSlot = %q, want %q", got, want)
	}
}
