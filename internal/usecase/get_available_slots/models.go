package get_available_slots

import "time"

// Request модель запроса сетки доступности
type Request struct {
	From string // YYYY-MM-DD, пусто - сегодня
	Days int    // 0 - длина окна бронирования
}

// Response сетка доступности по дням
type Response struct {
	From time.Time
	Days []Day
}

// Day слоты одного дня
type Day struct {
	Date     time.Time
	Bookable bool // день внутри окна бронирования
	Slots    []Slot
}

// Slot состояние одного окна
type Slot struct {
	TimeSlot   string
	Booked     bool
	UserNumber int64 // номер владельца брони, 0 если свободно
}
