package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateOnly отбрасывает время суток, оставляя полночь в том же часовом поясе
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays календарный сдвиг на n дней (корректен при переходе на летнее время)
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// SameDay совпадают ли календарные даты
func SameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// DaysBetween количество целых календарных дней от a до b (может быть отрицательным)
// Считается по датам в UTC, поэтому переход на летнее время не дает ошибку на единицу
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// AbsDaysBetween модуль DaysBetween
func AbsDaysBetween(a, b time.Time) int {
	d := DaysBetween(a, b)
	if d < 0 {
		return -d
	}
	return d
}

// ParseDate разбирает YYYY-MM-DD или DD/MM/YYYY в полночь указанного часового пояса
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}

	layout := DateFormat
	if strings.Contains(s, "/") {
		layout = AltDateFormat
		s = padDayMonth(s)
	}

	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// padDayMonth дополняет день и месяц нулями: 5/3/2026 -> 05/03/2026
func padDayMonth(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	for i := 0; i < 2; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "/")
}

// BookingWindow интервал дат, доступных для бронирования: [today, today+days-1]
type BookingWindow struct {
	Start time.Time
	End   time.Time
}

// NewBookingWindow строит окно бронирования от локальной полуночи now
func NewBookingWindow(now time.Time, days int) BookingWindow {
	start := DateOnly(now)
	return BookingWindow{
		Start: start,
		End:   AddDays(start, days-1),
	}
}

// Contains включает обе границы
func (w BookingWindow) Contains(date time.Time) bool {
	d := DateOnly(date.In(w.Start.Location()))
	return !d.Before(w.Start) && !d.After(w.End)
}
