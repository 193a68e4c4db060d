package models

import (
	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// Response модели

// BookingResponse бронь в формате API
type BookingResponse struct {
	Date       string `json:"date"`     // "2026-10-15"
	TimeSlot   string `json:"timeSlot"` // "08:00-13:00"
	Username   string `json:"username"`
	UserNumber int64  `json:"userNumber"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		Date:       b.Date.Format(domain.DateFormat),
		TimeSlot:   b.TimeSlot.Label,
		Username:   b.Username,
		UserNumber: b.UserNumber,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO; nil превращается в пустой список
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp = append(resp, *bookingResp)
		}
	}
	return resp
}
