package add_user

import (
	"context"

	"github.com/m04kA/SMC-SlotBoard/internal/service/users/models"
)

type UserService interface {
	Add(ctx context.Context, req *models.AddUserRequest) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
