package check_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetBySlot(ctx context.Context, date time.Time, slot domain.TimeSlot) (*domain.Booking, error)
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// UserRepository интерфейс репозитория пользователей (только чтение)
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
