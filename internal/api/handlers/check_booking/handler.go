package check_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
	checkBooking "github.com/m04kA/SMC-SlotBoard/internal/usecase/check_booking"
)

const (
	msgSlotAvailable   = "Slot available"
	msgSlotTaken       = "Time slot already booked"
	msgExistingBooking = "Existing booking found"
	msgInvalidUser     = "Invalid user credentials"
	msgInvalidSlotDate = "Invalid date or time slot"
	msgFailedToCheck   = "Failed to check booking"
)

type Handler struct {
	useCase CheckBookingUseCase
	logger  Logger
}

func NewHandler(useCase CheckBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/check-booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /check-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.BadRequestMessage(err))
		return
	}

	_, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var conflict *checkBooking.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Info("POST /check-booking - Existing booking found: existing=%s", conflict.Existing.SlotKey())
			handlers.RespondJSON(w, http.StatusConflict, FromConflict(msgExistingBooking, conflict))

		case errors.Is(err, checkBooking.ErrSlotTaken):
			h.logger.Info("POST /check-booking - Slot taken: date=%s, slot=%s", req.Date, req.TimeSlot)
			handlers.RespondBadRequest(w, msgSlotTaken)

		case errors.Is(err, checkBooking.ErrUnknownUser):
			h.logger.Warn("POST /check-booking - Unknown user: date=%s", req.Date)
			handlers.RespondUnauthorized(w, msgInvalidUser)

		case errors.Is(err, checkBooking.ErrInvalidInput):
			h.logger.Warn("POST /check-booking - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotDate)

		default:
			h.logger.Error("POST /check-booking - Failed to check booking: error=%v", err)
			handlers.RespondInternalErrorMessage(w, msgFailedToCheck)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AvailableResponse{Message: msgSlotAvailable})
}
