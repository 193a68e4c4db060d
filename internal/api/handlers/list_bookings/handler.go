package list_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
)

const msgFailedToRead = "Failed to read bookings"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /bookings - Failed to get bookings: error=%v", err)
		handlers.RespondInternalErrorMessage(w, msgFailedToRead)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
