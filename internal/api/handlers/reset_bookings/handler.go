package reset_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
)

const msgFailedToReset = "Failed to reset bookings"

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

// Handle POST /api/reset
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		h.logger.Error("POST /reset - Failed to reset bookings: error=%v", err)
		handlers.RespondInternalErrorMessage(w, msgFailedToReset)
		return
	}

	h.logger.Info("POST /reset - All bookings cleared")
	handlers.RespondJSON(w, http.StatusOK, &ResetResponse{Success: true})
}
