package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// candidate разобранный запрос
type candidate struct {
	date     time.Time
	slot     domain.TimeSlot
	username string
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, rules domain.Rules) (*candidate, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, fmt.Errorf("%w: username is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Date) == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date, err := rules.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot, ok := rules.TimeSlots.Find(req.TimeSlot)
	if !ok {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, req.TimeSlot)
	}

	return &candidate{date: date, slot: slot, username: username}, nil
}

// validateDate проверяет, что дата попадает в окно бронирования
func validateDate(date time.Time, now time.Time, rules domain.Rules) error {
	window := rules.Window(now)
	if !window.Contains(date) {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrOutsideWindow,
			date.Format(domain.DateFormat), window.Start.Format(domain.DateFormat), window.End.Format(domain.DateFormat))
	}
	return nil
}
