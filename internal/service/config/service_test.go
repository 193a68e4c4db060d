package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/pkg/logger"
)

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

func TestService_Get(t *testing.T) {
	rules := domain.DefaultRules()
	rules.Location = time.UTC
	rules.Provisioning = domain.ProvisioningFixed

	svc := NewService(rules, logger.Nop())
	svc.timeProvider = fixedTime(time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC))

	got := svc.Get()
	assert.Equal(t, []string{"08:00-13:00", "13:00-18:00", "18:00-22:00"}, got.TimeSlots)
	assert.Equal(t, 14, got.BookingWindowDays)
	assert.Equal(t, "fixed", got.UserProvisioning)
	assert.Equal(t, "UTC", got.Timezone)
	assert.Equal(t, "2026-10-15", got.Today)
	assert.Equal(t, "2026-10-28", got.WindowEnd)
}
