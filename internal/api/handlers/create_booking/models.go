package create_booking

import (
	"github.com/m04kA/SMC-SlotBoard/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SlotBoard/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date     string `json:"date" validate:"required"`     // "2026-10-15" или "15/10/2026"
	TimeSlot string `json:"timeSlot" validate:"required"` // "08:00-13:00"
	Username string `json:"username" validate:"required,max=255"`
	Replace  bool   `json:"replace"`
}

// BookingResponse созданная бронь и снятые ради нее брони пользователя
type BookingResponse struct {
	models.BookingResponse
	Success  bool                     `json:"success"`
	Replaced []models.BookingResponse `json:"replaced"`
}

// ReplaceResponse сигнал "нужна замена": бронь не создана
type ReplaceResponse struct {
	Replace         bool                    `json:"replace"`
	ExistingBooking *models.BookingResponse `json:"existingBooking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		Date:     r.Date,
		TimeSlot: r.TimeSlot,
		Username: r.Username,
		Replace:  r.Replace,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) interface{} {
	if resp.NeedsReplace {
		return &ReplaceResponse{
			Replace:         true,
			ExistingBooking: models.FromDomainBooking(resp.Existing),
		}
	}

	return &BookingResponse{
		BookingResponse: *models.FromDomainBooking(resp.Booking),
		Success:         true,
		Replaced:        models.FromDomainBookingList(resp.Replaced),
	}
}
