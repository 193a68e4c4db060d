package check_booking

import (
	"github.com/m04kA/SMC-SlotBoard/internal/service/bookings/models"
	checkBooking "github.com/m04kA/SMC-SlotBoard/internal/usecase/check_booking"
)

// CheckBookingRequest HTTP request model
type CheckBookingRequest struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"timeSlot" validate:"required"`
	Username string `json:"username" validate:"required,max=255"`
}

// AvailableResponse слот свободен
type AvailableResponse struct {
	Message string `json:"message"`
}

// ConflictResponse у пользователя уже есть бронь в пределах окна перебронирования
type ConflictResponse struct {
	Error           string                  `json:"error"`
	ExistingBooking *models.BookingResponse `json:"existingBooking"`
	NewBooking      *models.BookingResponse `json:"newBooking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckBookingRequest) ToUseCaseRequest() *checkBooking.Request {
	return &checkBooking.Request{
		Date:     r.Date,
		TimeSlot: r.TimeSlot,
		Username: r.Username,
	}
}

// FromConflict конвертирует конфликт в тело ответа 409
func FromConflict(message string, conflict *checkBooking.ConflictError) *ConflictResponse {
	return &ConflictResponse{
		Error:           message,
		ExistingBooking: models.FromDomainBooking(conflict.Existing),
		NewBooking:      models.FromDomainBooking(conflict.Candidate),
	}
}
