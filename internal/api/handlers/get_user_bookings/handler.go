package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBoard/internal/service/bookings"
)

const (
	msgInvalidUsername = "username is required"
	msgFailedToRead    = "Failed to read bookings"
)

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

// Handle GET /api/users/{username}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	result, err := h.service.ListByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /users/{username}/bookings - Invalid username")
			handlers.RespondBadRequest(w, msgInvalidUsername)
			return
		}
		h.logger.Error("GET /users/{username}/bookings - Failed to get bookings: error=%v", err)
		handlers.RespondInternalErrorMessage(w, msgFailedToRead)
		return
	}

	h.logger.Info("GET /users/{username}/bookings - Bookings retrieved successfully: count=%d", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
