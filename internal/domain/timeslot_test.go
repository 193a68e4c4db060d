package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBoard/pkg/types"
)

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot(" 08:00-13:00 ")
	require.NoError(t, err)
	assert.Equal(t, "08:00-13:00", slot.Label)
	assert.Equal(t, types.TimeString("08:00"), slot.Start)
	assert.Equal(t, types.TimeString("13:00"), slot.End)

	for _, bad := range []string{"", "08:00", "13:00-08:00", "8-13", "08:00-08:00"} {
		_, err := ParseTimeSlot(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot, bad)
	}
}

func TestParseTimeSlots(t *testing.T) {
	slots, err := ParseTimeSlots(DefaultTimeSlots)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeSlots, slots.Labels())

	found, ok := slots.Find("13:00-18:00")
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("18:00"), found.End)

	_, ok = slots.Find("09:00-10:00")
	assert.False(t, ok)

	_, err = ParseTimeSlots([]string{"08:00-13:00", "08:00-13:00"})
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	_, err = ParseTimeSlots(nil)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestNextUserNumber(t *testing.T) {
	assert.Equal(t, int64(1), NextUserNumber(nil))
	assert.Equal(t, int64(8), NextUserNumber([]*User{{Number: 3}, {Number: 7}, {Number: 2}}))
}

func TestParseUserProvisioning(t *testing.T) {
	p, err := ParseUserProvisioning("fixed")
	require.NoError(t, err)
	assert.Equal(t, ProvisioningFixed, p)

	_, err = ParseUserProvisioning("both")
	assert.Error(t, err)
}
