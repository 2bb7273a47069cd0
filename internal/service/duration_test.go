package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDuration(t *testing.T) {
	cases := []struct {
		bed, wake string
		want      int
	}{
		{"23:00", "07:00", 480},
		{"22:00", "22:00", 1440},
		{"22:00", "23:30", 90},
		{"00:00", "23:59", 1439},
		{"23:59", "00:00", 1},
		{"01:15", "09:45", 510},
		{"12:00", "11:59", 1439},
	}
	for _, tc := range cases {
		t.Run(tc.bed+"-"+tc.wake, func(t *testing.T) {
			got, err := ComputeDuration(tc.bed, tc.wake)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeDuration_WrapRule(t *testing.T) {
	for bed := 0; bed < minutesPerDay; bed += 37 {
		for wake := 0; wake < minutesPerDay; wake += 53 {
			bedStr := fmt.Sprintf("%02d:%02d", bed/60, bed%60)
			wakeStr := fmt.Sprintf("%02d:%02d", wake/60, wake%60)
			got, err := ComputeDuration(bedStr, wakeStr)
			require.NoError(t, err)
			if wake > bed {
				assert.Equal(t, wake-bed, got, "%s -> %s", bedStr, wakeStr)
			} else {
				assert.Equal(t, minutesPerDay-bed+wake, got, "%s -> %s", bedStr, wakeStr)
			}
		}
	}
}

func TestComputeDuration_Malformed(t *testing.T) {
	for _, tc := range [][2]string{{"", "07:00"}, {"23:00", ""}, {"25:00", "07:00"}, {"bed", "wake"}} {
		_, err := ComputeDuration(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidClock, "%q %q", tc[0], tc[1])
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "7h 30m", FormatDuration(450))
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "24h 0m", FormatDuration(1440))
}

func TestClockHour(t *testing.T) {
	h, err := ClockHour("23:45")
	require.NoError(t, err)
	assert.Equal(t, 23, h)

	_, err = ClockHour("nope")
	assert.Error(t, err)
}
