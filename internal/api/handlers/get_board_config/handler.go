package get_board_config

import (
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
)

type Handler struct {
	service ConfigService
}

func NewHandler(service ConfigService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.Get())
}
