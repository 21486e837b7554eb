package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	t.Run("valid times", func(t *testing.T) {
		t.Parallel()
		got, err := ParseClock("00:00")
		require.NoError(t, err)
		assert.Equal(t, 0, got)

		got, err = ParseClock("09:30")
		require.NoError(t, err)
		assert.Equal(t, 9*60+30, got)

		got, err = ParseClock("23:59")
		require.NoError(t, err)
		assert.Equal(t, 23*60+59, got)
	})

	t.Run("rejects bad formats", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"", "9:30", "09:3", "0930", "24:00", "12:60", "ab:cd", "12:34:56"} {
			_, err := ParseClock(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}

func TestSlotRulesValidateSlotTimes(t *testing.T) {
	t.Parallel()

	t.Run("permissive zero value only orders the pair", func(t *testing.T) {
		t.Parallel()
		var r SlotRules
		assert.NoError(t, r.ValidateSlotTimes("06:00", "06:45"))
		assert.Error(t, r.ValidateSlotTimes("10:00", "10:00"))
		assert.Error(t, r.ValidateSlotTimes("10:00", "09:00"))
	})

	t.Run("fixed duration", func(t *testing.T) {
		t.Parallel()
		r := SlotRules{FixedDurationMin: 60}
		assert.NoError(t, r.ValidateSlotTimes("09:00", "10:00"))
		assert.Error(t, r.ValidateSlotTimes("09:00", "09:45"))
		assert.Error(t, r.ValidateSlotTimes("09:00", "10:30"))
	})

	t.Run("operating window", func(t *testing.T) {
		t.Parallel()
		r := SlotRules{WindowStart: "06:00", WindowEnd: "22:00"}
		assert.NoError(t, r.ValidateSlotTimes("06:00", "07:00"))
		assert.NoError(t, r.ValidateSlotTimes("21:00", "22:00"))
		assert.Error(t, r.ValidateSlotTimes("05:30", "06:30"))
		assert.Error(t, r.ValidateSlotTimes("21:30", "22:30"))
	})

	t.Run("fixed duration inside window", func(t *testing.T) {
		t.Parallel()
		r := SlotRules{FixedDurationMin: 60, WindowStart: "06:00", WindowEnd: "22:00"}
		assert.NoError(t, r.ValidateSlotTimes("06:00", "07:00"))
		assert.Error(t, r.ValidateSlotTimes("06:00", "06:30"))
		assert.Error(t, r.ValidateSlotTimes("21:30", "22:30"))
	})
}

func TestSlotRulesValidateSlotCapacity(t *testing.T) {
	t.Parallel()

	t.Run("any positive capacity by default", func(t *testing.T) {
		t.Parallel()
		var r SlotRules
		assert.NoError(t, r.ValidateSlotCapacity(1))
		assert.NoError(t, r.ValidateSlotCapacity(500))
		assert.Error(t, r.ValidateSlotCapacity(0))
		assert.Error(t, r.ValidateSlotCapacity(-3))
	})

	t.Run("enumerated tiers", func(t *testing.T) {
		t.Parallel()
		r := SlotRules{AllowedCapacities: []int{10, 20, 30}}
		assert.NoError(t, r.ValidateSlotCapacity(20))
		assert.Error(t, r.ValidateSlotCapacity(15))
	})
}

func TestValidateDayOfWeek(t *testing.T) {
	t.Parallel()
	for d := 0; d <= 6; d++ {
		assert.NoError(t, ValidateDayOfWeek(d))
	}
	assert.Error(t, ValidateDayOfWeek(-1))
	assert.Error(t, ValidateDayOfWeek(7))
}
