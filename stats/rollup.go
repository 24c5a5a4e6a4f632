package stats

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/dto"
)

// ErrInvalidRange marks malformed view arguments (month outside 1-12, year
// outside a sane bound). It is an input-validation failure, raised before any
// storage work, and distinct from storage errors.
var ErrInvalidRange = errors.New("invalid statistics range")

const (
	minYear = 1970
	maxYear = 9999
)

// Every view below follows the same two-step shape: fetch the sparse buckets
// for the UTC range in one query, then walk the full ordered index of
// expected periods and fill each entry from the grouped data, emitting zeros
// for periods with no buckets. Output is therefore always dense and
// positionally indexable, and a key with no activity yields all-zero views.

// groupByPeriod sums buckets into their containing period, keyed by the
// period start's Unix second.
func groupByPeriod(buckets []UsageBucket, truncate func(time.Time) time.Time) map[int64]dto.UsageCounters {
	grouped := make(map[int64]dto.UsageCounters, len(buckets))
	for i := range buckets {
		key := truncate(time.Unix(buckets[i].TimeInterval, 0)).Unix()
		counters := grouped[key]
		counters.Add(buckets[i].Counters())
		grouped[key] = counters
	}
	return grouped
}

// Last24Hours returns 24 hour entries ending at the current hour inclusive.
func (s *Service) Last24Hours(ctx context.Context, apiKeyId string) (*dto.HourlyStatistics, error) {
	endExclusive := helper.TruncateToHourUTC(s.now()).Add(time.Hour)
	start := endExclusive.Add(-24 * time.Hour)

	buckets, err := s.QueryRange(ctx, apiKeyId, start, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.TruncateToHourUTC)

	view := &dto.HourlyStatistics{
		StartTime: start.Format(time.RFC3339),
		EndTime:   endExclusive.Add(-time.Hour).Format(time.RFC3339),
		Hours:     make([]dto.HourUsage, 0, 24),
	}
	for i := range 24 {
		hourStart := start.Add(time.Duration(i) * time.Hour)
		counters := grouped[hourStart.Unix()]
		view.Hours = append(view.Hours, dto.HourUsage{
			Hour:          hourStart.Hour(),
			Time:          hourStart.Format(time.RFC3339),
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}

// Day returns the 24 hour entries of the UTC calendar day containing date.
func (s *Service) Day(ctx context.Context, apiKeyId string, date time.Time) (*dto.DayStatistics, error) {
	dayStart := helper.StartOfDayUTC(date)
	endExclusive := dayStart.Add(24 * time.Hour)

	buckets, err := s.QueryRange(ctx, apiKeyId, dayStart, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.TruncateToHourUTC)

	view := &dto.DayStatistics{
		Date:  dayStart.Format("2006-01-02"),
		Hours: make([]dto.HourUsage, 0, 24),
	}
	for hour := range 24 {
		hourStart := dayStart.Add(time.Duration(hour) * time.Hour)
		counters := grouped[hourStart.Unix()]
		view.Hours = append(view.Hours, dto.HourUsage{
			Hour:          hour,
			Time:          hourStart.Format(time.RFC3339),
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}

// Month returns one entry per calendar day of the given UTC month,
// leap-year aware.
func (s *Service) Month(ctx context.Context, apiKeyId string, year, month int) (*dto.MonthStatistics, error) {
	if year < minYear || year > maxYear {
		return nil, errors.Wrapf(ErrInvalidRange, "year %d outside [%d, %d]", year, minYear, maxYear)
	}
	if month < 1 || month > 12 {
		return nil, errors.Wrapf(ErrInvalidRange, "month %d outside [1, 12]", month)
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endExclusive := monthStart.AddDate(0, 1, 0)
	days := helper.DaysInMonth(year, time.Month(month))

	buckets, err := s.QueryRange(ctx, apiKeyId, monthStart, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.StartOfDayUTC)

	view := &dto.MonthStatistics{
		Year:  year,
		Month: month,
		Days:  make([]dto.DayUsage, 0, days),
	}
	for i := range days {
		dayStart := monthStart.AddDate(0, 0, i)
		counters := grouped[dayStart.Unix()]
		view.Days = append(view.Days, dto.DayUsage{
			Date:          dayStart.Format("2006-01-02"),
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}

// Year returns 12 month entries for the given UTC year.
func (s *Service) Year(ctx context.Context, apiKeyId string, year int) (*dto.YearStatistics, error) {
	if year < minYear || year > maxYear {
		return nil, errors.Wrapf(ErrInvalidRange, "year %d outside [%d, %d]", year, minYear, maxYear)
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	endExclusive := yearStart.AddDate(1, 0, 0)

	buckets, err := s.QueryRange(ctx, apiKeyId, yearStart, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.StartOfMonthUTC)

	view := &dto.YearStatistics{
		Year:   year,
		Months: make([]dto.MonthUsage, 0, 12),
	}
	for i := range 12 {
		monthStart := yearStart.AddDate(0, i, 0)
		counters := grouped[monthStart.Unix()]
		view.Months = append(view.Months, dto.MonthUsage{
			Year:          year,
			Month:         i + 1,
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}

// Last30Days returns 30 day entries ending at the current UTC day.
func (s *Service) Last30Days(ctx context.Context, apiKeyId string) (*dto.DailyRangeStatistics, error) {
	todayStart := helper.StartOfDayUTC(s.now())
	endExclusive := todayStart.Add(24 * time.Hour)
	start := todayStart.AddDate(0, 0, -29)

	buckets, err := s.QueryRange(ctx, apiKeyId, start, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.StartOfDayUTC)

	view := &dto.DailyRangeStatistics{
		StartTime: start.Format(time.RFC3339),
		EndTime:   todayStart.Format(time.RFC3339),
		Days:      make([]dto.DayUsage, 0, 30),
	}
	for i := range 30 {
		dayStart := start.AddDate(0, 0, i)
		counters := grouped[dayStart.Unix()]
		view.Days = append(view.Days, dto.DayUsage{
			Date:          dayStart.Format("2006-01-02"),
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}

// Last12Months returns 12 month entries ending at the current month, each
// tagged with its calendar (year, month).
func (s *Service) Last12Months(ctx context.Context, apiKeyId string) (*dto.MonthlyRangeStatistics, error) {
	monthStart := helper.StartOfMonthUTC(s.now())
	endExclusive := monthStart.AddDate(0, 1, 0)
	start := monthStart.AddDate(0, -11, 0)

	buckets, err := s.QueryRange(ctx, apiKeyId, start, endExclusive)
	if err != nil {
		return nil, err
	}
	grouped := groupByPeriod(buckets, helper.StartOfMonthUTC)

	view := &dto.MonthlyRangeStatistics{
		StartTime: start.Format(time.RFC3339),
		EndTime:   monthStart.Format(time.RFC3339),
		Months:    make([]dto.MonthUsage, 0, 12),
	}
	for i := range 12 {
		periodStart := start.AddDate(0, i, 0)
		counters := grouped[periodStart.Unix()]
		view.Months = append(view.Months, dto.MonthUsage{
			Year:          periodStart.Year(),
			Month:         int(periodStart.Month()),
			UsageCounters: counters,
		})
		view.Totals.Add(counters)
	}
	return view, nil
}
