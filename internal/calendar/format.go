package calendar

import (
	"fmt"
	"time"
)

// FormatSlot форматирует бронь в человекочитаемую строку:
// "Tue 20.10.2026, 23:00–01:00 (+1 day)".
// Если includeID = true, в конце добавляется идентификатор в скобках.
func FormatSlot(date time.Time, r TimeRange, includeID bool, id string) string {
	base := fmt.Sprintf("%s, %s–%s",
		date.Format("Mon 02.01.2006"),
		r.Start.String(),
		r.End.String(),
	)
	if r.CrossesMidnight() {
		base += " (+1 day)"
	}

	if includeID && id != "" {
		return fmt.Sprintf("%s (ID: %s)", base, id)
	}
	return base
}
