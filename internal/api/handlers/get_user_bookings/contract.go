package get_user_bookings

import (
	"context"

	"github.com/m04kA/SMC-SlotBoard/internal/service/bookings/models"
)

type BookingService interface {
	ListByUsername(ctx context.Context, username string) ([]models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
