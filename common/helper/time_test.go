package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncateToHourUTC(t *testing.T) {
	in := time.Date(2024, 6, 15, 14, 37, 52, 123456, time.FixedZone("CEST", 2*3600))
	got := TruncateToHourUTC(in)
	require.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), got)
	// Idempotent on an already-truncated instant.
	require.Equal(t, got, TruncateToHourUTC(got))
}

func TestStartOfDayUTC(t *testing.T) {
	in := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	require.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), StartOfDayUTC(in))

	// An instant late in a zone ahead of UTC still lands on the UTC day.
	ahead := time.Date(2024, 6, 16, 1, 30, 0, 0, time.FixedZone("JST", 9*3600))
	require.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), StartOfDayUTC(ahead))
}

func TestStartOfMonthUTC(t *testing.T) {
	in := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), StartOfMonthUTC(in))
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		require.Equal(t, tc.days, DaysInMonth(tc.year, tc.month), "%d-%02d", tc.year, tc.month)
	}
}
