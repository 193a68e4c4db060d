package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	txManager    TransactionManager
	rules        domain.Rules
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	rules domain.Rules,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		rules:        rules,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Чтение, проверки и запись идут в одной сериализуемой транзакции, поэтому два
// конкурентных запроса на один слот не могут оба пройти проверку занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, date=%s, slot=%s, replace=%t",
		uc.rules.LogName(req.Username), req.Date, req.TimeSlot, req.Replace)

	// 1. Валидация входных данных
	c, err := validateRequest(req, uc.rules)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.outcome(OutcomeInvalid)
		return nil, err
	}

	// 2. Окно бронирования считается от локальной полуночи доски
	if err := validateDate(c.date, uc.timeProvider.Now(), uc.rules); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		uc.outcome(OutcomeOutsideWindow)
		return nil, err
	}

	var resp *Response

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3. Имя -> номер, при политике auto пользователь заводится
		user, err := uc.resolveUser(txCtx, c.username)
		if err != nil {
			return err
		}

		// 4. Замена: снимаем все брони пользователя в пределах окна перебронирования
		rebooking := domain.RebookingFilter(c.username, c.date, uc.rules.RebookingWindowDays)
		var replaced []*domain.Booking
		if req.Replace {
			replaced, err = uc.bookingRepo.Find(txCtx, rebooking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to find bookings to replace: %v", err)
				return fmt.Errorf("%w: failed to find bookings to replace: %w", ErrInternal, err)
			}
			if len(replaced) > 0 {
				deleted, err := uc.bookingRepo.DeleteMatching(txCtx, rebooking)
				if err != nil {
					uc.logger.Error("CreateBooking: failed to delete replaced bookings: %v", err)
					return fmt.Errorf("%w: failed to delete replaced bookings: %w", ErrInternal, err)
				}
				uc.logger.Info("CreateBooking: removed %d booking(s) of user=%s", deleted, uc.rules.LogName(c.username))
			}
		}

		// 5. Повторная проверка занятости слота по (возможно уменьшенному) журналу
		taken, err := uc.bookingRepo.GetBySlot(txCtx, c.date, c.slot)
		switch {
		case err == nil:
			uc.logger.Warn("CreateBooking: slot %s already booked by user=%s", taken.SlotKey(), uc.rules.LogName(taken.Username))
			return fmt.Errorf("%w: %s", ErrSlotTaken, taken.SlotKey())
		case !errors.Is(err, storage.ErrBookingNotFound):
			uc.logger.Error("CreateBooking: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}

		// 6. Без замены конфликтующая бронь возвращается клиенту, ничего не пишем
		if !req.Replace {
			conflicts, err := uc.bookingRepo.Find(txCtx, rebooking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to find conflicting bookings: %v", err)
				return fmt.Errorf("%w: failed to find conflicting bookings: %w", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				resp = &Response{NeedsReplace: true, Existing: conflicts[0]}
				return nil
			}
		}

		// 7. Запись
		booking := &domain.Booking{
			Date:       c.date,
			TimeSlot:   c.slot,
			Username:   c.username,
			UserNumber: user.Number,
		}
		if err := uc.bookingRepo.InsertIfAbsent(txCtx, booking); err != nil {
			if errors.Is(err, storage.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s taken on insert", booking.SlotKey())
				return fmt.Errorf("%w: %s", ErrSlotTaken, booking.SlotKey())
			}
			uc.logger.Error("CreateBooking: failed to insert booking: %v", err)
			return fmt.Errorf("%w: failed to insert booking: %w", ErrInternal, err)
		}

		resp = &Response{Booking: booking, Replaced: replaced}
		return nil
	})

	if err != nil {
		uc.outcome(outcomeOf(err))
		if !isKnown(err) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	if resp.NeedsReplace {
		uc.logger.Info("CreateBooking: user=%s already holds %s, replace required",
			uc.rules.LogName(c.username), resp.Existing.SlotKey())
		uc.outcome(OutcomeNeedsReplace)
		return resp, nil
	}

	uc.logger.Info("CreateBooking: successfully booked %s for user=%s (#%d), replaced=%d",
		resp.Booking.SlotKey(), uc.rules.LogName(resp.Booking.Username), resp.Booking.UserNumber, len(resp.Replaced))
	uc.outcome(OutcomeCreated)

	return resp, nil
}

// resolveUser находит номер пользователя или заводит нового при политике auto
func (uc *UseCase) resolveUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		uc.logger.Error("CreateBooking: failed to get user=%s: %v", uc.rules.LogName(username), err)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	if uc.rules.Provisioning != domain.ProvisioningAuto {
		uc.logger.Warn("CreateBooking: unknown user=%s", uc.rules.LogName(username))
		return nil, ErrUnknownUser
	}

	user, err = uc.userRepo.CreateNext(ctx, username)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to provision user=%s: %v", username, err)
		return nil, fmt.Errorf("%w: failed to provision user: %w", ErrInternal, err)
	}
	uc.logger.Info("CreateBooking: provisioned user=%s as #%d", user.Username, user.Number)

	return user, nil
}

func (uc *UseCase) outcome(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingOutcome(outcome)
	}
}

func isKnown(err error) bool {
	return errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrInternal)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return OutcomeSlotTaken
	case errors.Is(err, ErrUnknownUser):
		return OutcomeUnknownUser
	default:
		return OutcomeError
	}
}
