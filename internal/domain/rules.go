package domain

import "time"

// Rules правила доски, общие для всех операций
type Rules struct {
	Provisioning        UserProvisioning
	TimeSlots           TimeSlots
	BookingWindowDays   int
	RebookingWindowDays int
	Location            *time.Location
}

// DefaultRules правила по умолчанию: три окна, 14 дней, автосоздание пользователей
func DefaultRules() Rules {
	slots, _ := ParseTimeSlots(DefaultTimeSlots)
	return Rules{
		Provisioning:        ProvisioningAuto,
		TimeSlots:           slots,
		BookingWindowDays:   DefaultBookingWindowDays,
		RebookingWindowDays: DefaultRebookingWindowDays,
		Location:            time.Local,
	}
}

// Today локальная полночь текущего дня доски
func (r Rules) Today(now time.Time) time.Time {
	return DateOnly(now.In(r.location()))
}

// Window окно бронирования относительно now
func (r Rules) Window(now time.Time) BookingWindow {
	return NewBookingWindow(now.In(r.location()), r.BookingWindowDays)
}

// ParseDate разбирает дату в часовом поясе доски
func (r Rules) ParseDate(s string) (time.Time, error) {
	return ParseDate(s, r.location())
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// LogName имя пользователя для логов; при политике fixed имя является кодом доступа и не пишется
func (r Rules) LogName(username string) string {
	if r.Provisioning == ProvisioningFixed {
		return "***"
	}
	return username
}
