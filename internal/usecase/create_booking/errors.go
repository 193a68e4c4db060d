package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrOutsideWindow возвращается, когда дата вне окна бронирования [сегодня, сегодня+13]
	ErrOutsideWindow = errors.New("create_booking: date is outside the booking window")

	// ErrSlotTaken возвращается, когда слот уже занят
	ErrSlotTaken = errors.New("create_booking: slot is already booked")

	// ErrUnknownUser возвращается, когда пользователь не заведен (политика fixed)
	ErrUnknownUser = errors.New("create_booking: unknown user")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Исходы для метрики booking_outcomes_total
const (
	OutcomeCreated       = "created"
	OutcomeNeedsReplace  = "needs_replace"
	OutcomeSlotTaken     = "slot_taken"
	OutcomeOutsideWindow = "outside_window"
	OutcomeUnknownUser   = "unknown_user"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
)
