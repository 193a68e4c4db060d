package domain

import "time"

// Booking бронь одного слота (дата + временное окно)
type Booking struct {
	Date       time.Time // полночь по локальному времени доски
	TimeSlot   TimeSlot
	Username   string
	UserNumber int64
}

// SlotKey уникальный ключ слота, например "2026-10-15_08:00-13:00"
func (b *Booking) SlotKey() string {
	return SlotKey(b.Date, b.TimeSlot)
}

// SameSlot true, если брони занимают один и тот же слот
func (b *Booking) SameSlot(date time.Time, slot TimeSlot) bool {
	return SameDay(b.Date, date) && b.TimeSlot.Label == slot.Label
}

// WithinDays true, если дата брони отстоит от date не больше чем на days дней
func (b *Booking) WithinDays(date time.Time, days int) bool {
	return AbsDaysBetween(b.Date, date) <= days
}

// SlotKey строит ключ слота из даты и окна
func SlotKey(date time.Time, slot TimeSlot) string {
	return date.Format(DateFormat) + "_" + slot.Label
}

// BookingFilter условия выборки/удаления броней
// Пустые поля не ограничивают выборку
type BookingFilter struct {
	Username  *string
	StartDate *time.Time // включительно
	EndDate   *time.Time // включительно
}

// Matches проверяет бронь на соответствие фильтру
func (f BookingFilter) Matches(b *Booking) bool {
	if f.Username != nil && b.Username != *f.Username {
		return false
	}
	if f.StartDate != nil && DateOnly(b.Date).Before(DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && DateOnly(b.Date).After(DateOnly(*f.EndDate)) {
		return false
	}
	return true
}

// RebookingFilter брони пользователя в пределах days дней от date (в обе стороны)
func RebookingFilter(username string, date time.Time, days int) BookingFilter {
	start := AddDays(date, -days)
	end := AddDays(date, days)
	return BookingFilter{
		Username:  &username,
		StartDate: &start,
		EndDate:   &end,
	}
}
