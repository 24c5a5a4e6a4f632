package stats

import (
	"context"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/widgetly/chat-api/dto"
)

// recordAt inserts one event with the clock pinned to the given instant.
func recordAt(t *testing.T, svc *Service, key string, at time.Time, delta EventDelta) {
	t.Helper()
	svc.now = func() time.Time { return at }
	require.NoError(t, svc.Record(context.Background(), key, delta))
}

func TestDayViewIsDenseAndZeroFilled(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	recordAt(t, svc, "key-1", day.Add(3*time.Hour+12*time.Minute), EventDelta{Origin: OriginBot, Tokens: 10})
	recordAt(t, svc, "key-1", day.Add(17*time.Hour+45*time.Minute), EventDelta{Origin: OriginBot, Tokens: 5})

	view, err := svc.Day(ctx, "key-1", day)
	require.NoError(t, err)
	require.Equal(t, "2024-06-15", view.Date)
	require.Len(t, view.Hours, 24)

	for i, entry := range view.Hours {
		require.Equal(t, i, entry.Hour)
		switch i {
		case 3:
			require.Equal(t, int64(10), entry.TokenUsed)
		case 17:
			require.Equal(t, int64(5), entry.TokenUsed)
		default:
			require.Zero(t, entry.TokenUsed, "hour %d must be zero-filled", i)
		}
	}
	require.Equal(t, int64(15), view.Totals.TokenUsed)
	require.Equal(t, int64(2), view.Totals.MessagesFromBot)
}

func TestDayViewNoActivityIsAllZeros(t *testing.T) {
	svc := newTestService(t, time.Time{})
	view, err := svc.Day(context.Background(), "silent-key", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, view.Hours, 24)
	require.Equal(t, dto.UsageCounters{}, view.Totals)
}

func TestLast24HoursEndsAtCurrentHour(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	recordAt(t, svc, "key-1", now, EventDelta{Origin: OriginUser})
	// Just outside the window.
	recordAt(t, svc, "key-1", now.Add(-25*time.Hour), EventDelta{Origin: OriginUser, Tokens: 99})

	svc.now = func() time.Time { return now }
	view, err := svc.Last24Hours(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, view.Hours, 24)

	last := view.Hours[23]
	require.Equal(t, 14, last.Hour, "window must end at the current hour inclusive")
	require.Equal(t, int64(1), last.MessagesFromUser)
	require.Equal(t, int64(1), view.Totals.MessagesSent)
	require.Zero(t, view.Totals.TokenUsed, "event outside the window must not leak in")
}

func TestMonthViewLeapYearLength(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()

	view, err := svc.Month(ctx, "key-1", 2024, 2)
	require.NoError(t, err)
	require.Len(t, view.Days, 29)

	view, err = svc.Month(ctx, "key-1", 2023, 2)
	require.NoError(t, err)
	require.Len(t, view.Days, 28)
	require.Equal(t, "2023-02-01", view.Days[0].Date)
	require.Equal(t, "2023-02-28", view.Days[27].Date)
}

func TestMonthBoundaryBucketing(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()

	recordAt(t, svc, "key-1", time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), EventDelta{Origin: OriginUser})
	recordAt(t, svc, "key-1", time.Date(2024, 4, 1, 0, 0, 1, 0, time.UTC), EventDelta{Origin: OriginUser})

	march, err := svc.Month(ctx, "key-1", 2024, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), march.Totals.MessagesSent)
	require.Equal(t, int64(1), march.Days[30].MessagesSent)

	april, err := svc.Month(ctx, "key-1", 2024, 4)
	require.NoError(t, err)
	require.Equal(t, int64(1), april.Totals.MessagesSent)
	require.Equal(t, int64(1), april.Days[0].MessagesSent)
}

func TestMonthRejectsInvalidRange(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()

	for _, tc := range []struct{ year, month int }{
		{2024, 0},
		{2024, 13},
		{1969, 6},
		{10000, 6},
	} {
		_, err := svc.Month(ctx, "key-1", tc.year, tc.month)
		require.True(t, errors.Is(err, ErrInvalidRange), "year=%d month=%d", tc.year, tc.month)
	}
}

func TestYearViewHasTwelveMonths(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()

	recordAt(t, svc, "key-1", time.Date(2024, 7, 10, 8, 0, 0, 0, time.UTC), EventDelta{Origin: OriginBot, Tokens: 7})

	view, err := svc.Year(ctx, "key-1", 2024)
	require.NoError(t, err)
	require.Len(t, view.Months, 12)
	require.Equal(t, 1, view.Months[0].Month)
	require.Equal(t, 12, view.Months[11].Month)
	require.Equal(t, int64(7), view.Months[6].TokenUsed)
	require.Equal(t, int64(7), view.Totals.TokenUsed)

	_, err = svc.Year(ctx, "key-1", 0)
	require.True(t, errors.Is(err, ErrInvalidRange))
}

func TestLast30DaysShape(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	recordAt(t, svc, "key-1", now, EventDelta{Origin: OriginUser})
	recordAt(t, svc, "key-1", now.AddDate(0, 0, -29), EventDelta{Origin: OriginUser})
	// One day before the window opens.
	recordAt(t, svc, "key-1", now.AddDate(0, 0, -30), EventDelta{Origin: OriginUser, Tokens: 99})

	svc.now = func() time.Time { return now }
	view, err := svc.Last30Days(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, view.Days, 30)
	require.Equal(t, "2024-05-17", view.Days[0].Date)
	require.Equal(t, "2024-06-15", view.Days[29].Date)
	require.Equal(t, int64(2), view.Totals.MessagesSent)
	require.Zero(t, view.Totals.TokenUsed)
}

func TestLast12MonthsCarriesCalendarTags(t *testing.T) {
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	recordAt(t, svc, "key-1", time.Date(2023, 11, 5, 9, 0, 0, 0, time.UTC), EventDelta{Origin: OriginUser})

	svc.now = func() time.Time { return now }
	view, err := svc.Last12Months(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, view.Months, 12)

	first := view.Months[0]
	require.Equal(t, 2023, first.Year)
	require.Equal(t, 4, first.Month)
	last := view.Months[11]
	require.Equal(t, 2024, last.Year)
	require.Equal(t, 3, last.Month)

	var hits int
	for _, entry := range view.Months {
		if entry.MessagesSent > 0 {
			hits++
			require.Equal(t, 2023, entry.Year)
			require.Equal(t, 11, entry.Month)
		}
	}
	require.Equal(t, 1, hits)
}

func TestRollupConservation(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for hour := 0; hour < 24; hour += 5 {
		recordAt(t, svc, "key-1", day.Add(time.Duration(hour)*time.Hour), EventDelta{Origin: OriginBot, Tokens: int64(hour + 1)})
	}

	dayView, err := svc.Day(ctx, "key-1", day)
	require.NoError(t, err)

	var hourSum dto.UsageCounters
	for _, entry := range dayView.Hours {
		hourSum.Add(entry.UsageCounters)
	}
	require.Equal(t, dayView.Totals, hourSum)

	monthView, err := svc.Month(ctx, "key-1", 2024, 6)
	require.NoError(t, err)
	require.Equal(t, dayView.Totals, monthView.Days[14].UsageCounters)
	require.Equal(t, dayView.Totals, monthView.Totals)

	summed, err := svc.SumRange(ctx, "key-1", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, dayView.Totals, summed)
}
