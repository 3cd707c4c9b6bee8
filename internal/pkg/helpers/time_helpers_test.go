package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"0900", 0, true},
		{"nine:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := ParseClock(tt.clock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.minutes, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00", FormatClock(0))
	require.Equal(t, "09:05", FormatClock(545))
	require.Equal(t, "23:59", FormatClock(1439))
}

func TestFormatClockRoundTrip(t *testing.T) {
	t.Parallel()

	for _, clock := range []string{"08:00", "13:45", "23:59"} {
		minutes, err := ParseClock(clock)
		require.NoError(t, err)
		require.Equal(t, clock, FormatClock(minutes))
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	require.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
	require.Equal(t, time.Minute, ParseDuration("", time.Minute))
}
