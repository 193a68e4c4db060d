package get_available_slots

import (
	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotBoard/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	From string        `json:"from"`
	Days []DayResponse `json:"days"`
}

// DayResponse слоты одного дня
type DayResponse struct {
	Date     string         `json:"date"`
	Bookable bool           `json:"bookable"`
	Slots    []SlotResponse `json:"slots"`
}

// SlotResponse состояние окна
type SlotResponse struct {
	TimeSlot   string `json:"timeSlot"`
	Booked     bool   `json:"booked"`
	UserNumber int64  `json:"userNumber,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		From: resp.From.Format(domain.DateFormat),
		Days: make([]DayResponse, len(resp.Days)),
	}

	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				TimeSlot:   slot.TimeSlot,
				Booked:     slot.Booked,
				UserNumber: slot.UserNumber,
			}
		}
		out.Days[i] = DayResponse{
			Date:     day.Date.Format(domain.DateFormat),
			Bookable: day.Bookable,
			Slots:    slots,
		}
	}

	return out
}
