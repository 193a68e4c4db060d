package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SlotBoard/internal/usecase/create_booking"
)

const (
	msgOutsideWindow   = "Cannot book outside the two-week window"
	msgInvalidUser     = "Invalid user credentials"
	msgSlotTaken       = "This slot is already booked"
	msgFailedToBook    = "Failed to add booking"
	msgInvalidSlotDate = "Invalid date or time slot"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.BadRequestMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrOutsideWindow):
			h.logger.Warn("POST /bookings - Outside booking window: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgOutsideWindow)

		case errors.Is(err, createBooking.ErrUnknownUser):
			h.logger.Warn("POST /bookings - Unknown user: date=%s", req.Date)
			handlers.RespondUnauthorized(w, msgInvalidUser)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: date=%s, slot=%s", req.Date, req.TimeSlot)
			handlers.RespondBadRequest(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotDate)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalErrorMessage(w, msgFailedToBook)
		}
		return
	}

	if result.NeedsReplace {
		h.logger.Info("POST /bookings - Replace required: existing=%s", result.Existing.SlotKey())
	} else {
		h.logger.Info("POST /bookings - Booking created successfully: slot=%s, user_number=%d",
			result.Booking.SlotKey(), result.Booking.UserNumber)
	}
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
