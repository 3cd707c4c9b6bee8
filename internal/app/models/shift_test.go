package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeekdayValid(t *testing.T) {
	t.Parallel()

	for _, day := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday} {
		require.True(t, day.Valid())
	}
	require.False(t, Weekday("SATURDAY").Valid())
	require.False(t, Weekday("monday").Valid())
	require.False(t, Weekday("").Valid())
}

func TestShiftKindValid(t *testing.T) {
	t.Parallel()

	require.True(t, Theoretical.Valid())
	require.True(t, Practical.Valid())
	require.False(t, ShiftKind("LAB").Valid())
}

func TestShiftOverlapsTime(t *testing.T) {
	t.Parallel()

	base := &Shift{ID: 1, Weekday: Monday, StartMin: 9 * 60, EndMin: 11 * 60}

	tests := []struct {
		name  string
		other *Shift
		want  bool
	}{
		{"partial overlap", &Shift{Weekday: Monday, StartMin: 10 * 60, EndMin: 12 * 60}, true},
		{"contained", &Shift{Weekday: Monday, StartMin: 9*60 + 30, EndMin: 10 * 60}, true},
		{"identical", &Shift{Weekday: Monday, StartMin: 9 * 60, EndMin: 11 * 60}, true},
		{"adjacent after", &Shift{Weekday: Monday, StartMin: 11 * 60, EndMin: 13 * 60}, false},
		{"adjacent before", &Shift{Weekday: Monday, StartMin: 7 * 60, EndMin: 9 * 60}, false},
		{"other weekday", &Shift{Weekday: Tuesday, StartMin: 9 * 60, EndMin: 11 * 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, base.OverlapsTime(tt.other))
			require.Equal(t, tt.want, tt.other.OverlapsTime(base))
		})
	}
}
