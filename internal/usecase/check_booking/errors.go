package check_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_booking: invalid input data")

	// ErrSlotTaken возвращается, когда слот уже занят
	ErrSlotTaken = errors.New("check_booking: slot is already booked")

	// ErrConflictingWindow возвращается, когда у пользователя есть бронь в пределах окна перебронирования
	ErrConflictingWindow = errors.New("check_booking: user already holds a booking nearby")

	// ErrUnknownUser возвращается, когда пользователь не заведен (политика fixed)
	ErrUnknownUser = errors.New("check_booking: unknown user")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_booking: internal error")
)

// ConflictError конфликт с существующей бронью пользователя
type ConflictError struct {
	Existing  *domain.Booking
	Candidate *domain.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: existing %s, candidate %s", ErrConflictingWindow, e.Existing.SlotKey(), e.Candidate.SlotKey())
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingWindow
}
