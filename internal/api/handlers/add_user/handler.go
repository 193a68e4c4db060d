package add_user

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBoard/internal/service/users"
)

const (
	msgUserExists      = "User already exists"
	msgDisabled        = "User management is disabled"
	msgInvalidUser     = "Invalid user data"
	msgFailedToAddUser = "Failed to add user"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/users
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /users - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.BadRequestMessage(err))
		return
	}

	result, err := h.service.Add(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserAlreadyExists):
			h.logger.Warn("POST /users - User already exists: user_id=%d", req.UserID)
			handlers.RespondConflict(w, msgUserExists)

		case errors.Is(err, users.ErrProvisioningDisabled):
			h.logger.Warn("POST /users - User management disabled")
			handlers.RespondNotFound(w, msgDisabled)

		case errors.Is(err, users.ErrInvalidInput):
			h.logger.Warn("POST /users - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidUser)

		default:
			h.logger.Error("POST /users - Failed to add user: user_id=%d, error=%v", req.UserID, err)
			handlers.RespondInternalErrorMessage(w, msgFailedToAddUser)
		}
		return
	}

	h.logger.Info("POST /users - User added successfully: user_id=%d", result.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
