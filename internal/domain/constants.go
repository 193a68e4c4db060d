package domain

// Правила доски бронирования по умолчанию
const (
	// DefaultBookingWindowDays горизонт бронирования: сегодня + 13 дней включительно
	DefaultBookingWindowDays = 14
	// DefaultRebookingWindowDays пользователь держит не больше одной брони в пределах стольких дней
	DefaultRebookingWindowDays = 14
	// MaxAvailabilityDays максимальный диапазон сетки доступности за один запрос
	MaxAvailabilityDays = 62
	// MaxUsernameLength ограничение длины имени/кода пользователя
	MaxUsernameLength = 255
)

// Time format constants
const (
	TimeFormat    = "15:04"      // HH:MM
	DateFormat    = "2006-01-02" // YYYY-MM-DD
	AltDateFormat = "02/01/2006" // DD/MM/YYYY, так иногда присылает клиент
)

// DefaultTimeSlots три фиксированных окна в день
var DefaultTimeSlots = []string{
	"08:00-13:00",
	"13:00-18:00",
	"18:00-22:00",
}
