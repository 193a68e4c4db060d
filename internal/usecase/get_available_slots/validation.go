package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// validateRequest нормализует диапазон: начальная дата и количество дней
func validateRequest(req *Request, rules domain.Rules, now time.Time) (time.Time, int, error) {
	from := rules.Today(now)
	if s := strings.TrimSpace(req.From); s != "" {
		parsed, err := rules.ParseDate(s)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		from = parsed
	}

	days := req.Days
	if days == 0 {
		days = rules.BookingWindowDays
	}
	if days < 0 || days > domain.MaxAvailabilityDays {
		return time.Time{}, 0, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxAvailabilityDays)
	}

	return from, days, nil
}
