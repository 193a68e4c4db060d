package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// UseCase use case для получения сетки доступности слотов
type UseCase struct {
	bookingRepo  BookingRepository
	rules        domain.Rules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, rules domain.Rules, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute строит сетку: для каждого дня диапазона все окна с признаком занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	from, days, err := validateRequest(req, uc.rules, now)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	to := domain.AddDays(from, days-1)
	bookings, err := uc.bookingRepo.Find(ctx, domain.BookingFilter{StartDate: &from, EndDate: &to})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: from=%s, days=%d, booked=%d",
		from.Format(domain.DateFormat), days, len(bookings))

	return &Response{
		From: from,
		Days: buildGrid(from, days, uc.rules.TimeSlots, uc.rules.Window(now), bookings),
	}, nil
}
