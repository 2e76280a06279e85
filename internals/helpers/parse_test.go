package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockMinutesRoundTrip(t *testing.T) {
	cases := []struct {
		clock   string
		minutes int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"12:05", 725},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ClockMinutes(tc.clock)
		require.NoError(t, err)
		assert.Equal(t, tc.minutes, got)
		assert.Equal(t, tc.clock, MinutesClock(tc.minutes))
	}

	_, err := ClockMinutes("9am")
	assert.Error(t, err)
	_, err = ClockMinutes("25:00")
	assert.Error(t, err)
}

func TestParseClockTimeNormalizes(t *testing.T) {
	got, err := ParseClockTime(" 09:05 ")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "uq_timetable_entries_slot" (SQLSTATE 23505)`)))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: timetable_entries.timetable_entry_section_id")))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.False(t, IsDuplicateKey(nil))
}
