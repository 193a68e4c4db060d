package check_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
)

// UseCase предварительная проверка слота; журнал не меняет и блокировок не берет,
// поэтому ответ носит рекомендательный характер
type UseCase struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	rules       domain.Rules
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, userRepo UserRepository, rules domain.Rules, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		rules:       rules,
		logger:      logger,
	}
}

// Execute проверяет, что слот свободен и у пользователя нет брони в пределах окна перебронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckBooking: user=%s, date=%s, slot=%s", uc.rules.LogName(req.Username), req.Date, req.TimeSlot)

	candidate, err := uc.parse(req)
	if err != nil {
		uc.logger.Warn("CheckBooking: validation failed: %v", err)
		return nil, err
	}

	// Номер только для отображения: неизвестный пользователь при политике auto получает 0
	user, err := uc.userRepo.GetByUsername(ctx, candidate.Username)
	switch {
	case err == nil:
		candidate.UserNumber = user.Number
	case errors.Is(err, storage.ErrUserNotFound):
		if uc.rules.Provisioning != domain.ProvisioningAuto {
			uc.logger.Warn("CheckBooking: unknown user=%s", uc.rules.LogName(candidate.Username))
			return nil, ErrUnknownUser
		}
	default:
		uc.logger.Error("CheckBooking: failed to get user=%s: %v", uc.rules.LogName(candidate.Username), err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	taken, err := uc.bookingRepo.GetBySlot(ctx, candidate.Date, candidate.TimeSlot)
	switch {
	case err == nil:
		uc.logger.Info("CheckBooking: slot %s taken by user=%s", taken.SlotKey(), uc.rules.LogName(taken.Username))
		return nil, fmt.Errorf("%w: %s", ErrSlotTaken, taken.SlotKey())
	case !errors.Is(err, storage.ErrBookingNotFound):
		uc.logger.Error("CheckBooking: failed to check slot: %v", err)
		return nil, fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}

	conflicts, err := uc.bookingRepo.Find(ctx,
		domain.RebookingFilter(candidate.Username, candidate.Date, uc.rules.RebookingWindowDays))
	if err != nil {
		uc.logger.Error("CheckBooking: failed to find user bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to find user bookings: %v", ErrInternal, err)
	}
	if len(conflicts) > 0 {
		uc.logger.Info("CheckBooking: user=%s already holds %s", uc.rules.LogName(candidate.Username), conflicts[0].SlotKey())
		return nil, &ConflictError{Existing: conflicts[0], Candidate: candidate}
	}

	return &Response{Candidate: candidate}, nil
}

func (uc *UseCase) parse(req *Request) (*domain.Booking, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, fmt.Errorf("%w: username is too long", ErrInvalidInput)
	}

	date, err := uc.rules.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot, ok := uc.rules.TimeSlots.Find(req.TimeSlot)
	if !ok {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, req.TimeSlot)
	}

	return &domain.Booking{Date: date, TimeSlot: slot, Username: username}, nil
}
