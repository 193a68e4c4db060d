package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// buildGrid раскладывает брони по дням и окнам диапазона [from, from+days-1]
func buildGrid(from time.Time, days int, slots domain.TimeSlots, window domain.BookingWindow, bookings []*domain.Booking) []Day {
	bySlot := make(map[string]*domain.Booking, len(bookings))
	for _, b := range bookings {
		bySlot[b.SlotKey()] = b
	}

	grid := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		date := domain.AddDays(from, i)
		day := Day{
			Date:     date,
			Bookable: window.Contains(date),
			Slots:    make([]Slot, 0, len(slots)),
		}
		for _, slot := range slots {
			s := Slot{TimeSlot: slot.Label}
			if b, ok := bySlot[domain.SlotKey(date, slot)]; ok {
				s.Booked = true
				s.UserNumber = b.UserNumber
			}
			day.Slots = append(day.Slots, s)
		}
		grid = append(grid, day)
	}

	return grid
}
