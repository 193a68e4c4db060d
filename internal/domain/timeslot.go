package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotBoard/pkg/types"
)

// ErrInvalidTimeSlot возвращается для окна не в формате HH:MM-HH:MM
var ErrInvalidTimeSlot = errors.New("domain: invalid time slot")

// TimeSlot временное окно внутри дня, например 08:00-13:00
type TimeSlot struct {
	Label string
	Start types.TimeString
	End   types.TimeString
}

// ParseTimeSlot разбирает метку "HH:MM-HH:MM"
func ParseTimeSlot(label string) (TimeSlot, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(label), "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
	}

	start, err := types.NewTimeStringFromString(strings.TrimSpace(startStr))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeSlot, label, err)
	}
	end, err := types.NewTimeStringFromString(strings.TrimSpace(endStr))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeSlot, label, err)
	}
	if !start.IsBefore(end) {
		return TimeSlot{}, fmt.Errorf("%w: %q: start must be before end", ErrInvalidTimeSlot, label)
	}

	return NewTimeSlot(start, end), nil
}

// NewTimeSlot собирает окно из границ
func NewTimeSlot(start, end types.TimeString) TimeSlot {
	return TimeSlot{
		Label: start.String() + "-" + end.String(),
		Start: start,
		End:   end,
	}
}

// String реализует fmt.Stringer
func (s TimeSlot) String() string {
	return s.Label
}

// TimeSlots упорядоченный набор допустимых окон
type TimeSlots []TimeSlot

// ParseTimeSlots разбирает список меток из конфигурации
func ParseTimeSlots(labels []string) (TimeSlots, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: empty slot list", ErrInvalidTimeSlot)
	}

	slots := make(TimeSlots, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		slot, err := ParseTimeSlot(label)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[slot.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrInvalidTimeSlot, slot.Label)
		}
		seen[slot.Label] = struct{}{}
		slots = append(slots, slot)
	}

	return slots, nil
}

// Find ищет окно по метке
func (s TimeSlots) Find(label string) (TimeSlot, bool) {
	label = strings.TrimSpace(label)
	for _, slot := range s {
		if slot.Label == label {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// Labels метки окон в порядке конфигурации
func (s TimeSlots) Labels() []string {
	labels := make([]string, len(s))
	for i, slot := range s {
		labels[i] = slot.Label
	}
	return labels
}
