package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotBoard/internal/service/bookings/models"
)

// Service сервис для чтения и сброса журнала бронирований
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// List возвращает все брони с номерами пользователей
func (s *Service) List(ctx context.Context) ([]models.BookingResponse, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ListByUsername возвращает брони одного пользователя
func (s *Service) ListByUsername(ctx context.Context, username string) ([]models.BookingResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByUsername(ctx, username)
	if err != nil {
		s.logger.Error("ListByUsername: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByUsername - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByUsername: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Reset очищает журнал; повторный вызов ничего не меняет
func (s *Service) Reset(ctx context.Context) error {
	s.logger.Warn("Reset: clearing all bookings")

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.bookingRepo.ReplaceAll(txCtx, nil)
	})
	if err != nil {
		s.logger.Error("Reset: failed to clear bookings: %v", err)
		return fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Reset: all bookings cleared")
	return nil
}
