package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestService builds the engine on an in-memory store with a frozen clock.
// The pool is pinned to one connection so concurrent writers serialize inside
// SQLite instead of hitting table-lock errors.
func newTestService(t *testing.T, at time.Time) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&UsageBucket{}, &ApiKeyStatistics{}))

	svc := NewService(db)
	if !at.IsZero() {
		svc.now = func() time.Time { return at }
	}
	return svc
}

func TestRecordAccumulatesIntoSingleBucket(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 37, 12, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginBot, Tokens: 42}))

	var buckets []UsageBucket
	require.NoError(t, svc.db.Find(&buckets).Error)
	require.Len(t, buckets, 1, "events within one hour must share one bucket row")

	bucket := buckets[0]
	require.Equal(t, "key-1", bucket.ApiKeyId)
	require.Equal(t, time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC).Unix(), bucket.TimeInterval)
	require.Equal(t, int64(42), bucket.TokenUsed)
	require.Equal(t, int64(2), bucket.MessagesSent)
	require.Equal(t, int64(1), bucket.MessagesFromUser)
	require.Equal(t, int64(1), bucket.MessagesFromBot)
	require.Equal(t, int64(2), bucket.RequestsCount)
}

func TestRecordSplitsBucketsAcrossHours(t *testing.T) {
	svc := newTestService(t, time.Time{})
	ctx := context.Background()

	first := time.Date(2024, 6, 15, 14, 59, 59, 0, time.UTC)
	second := time.Date(2024, 6, 15, 15, 0, 1, 0, time.UTC)

	svc.now = func() time.Time { return first }
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	svc.now = func() time.Time { return second }
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))

	var buckets []UsageBucket
	require.NoError(t, svc.db.Order("time_interval asc").Find(&buckets).Error)
	require.Len(t, buckets, 2)
	require.Equal(t, buckets[0].TimeInterval+3600, buckets[1].TimeInterval)
}

func TestRecordConcurrentEventsLoseNothing(t *testing.T) {
	const workers = 20
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Record(context.Background(), "key-1", EventDelta{Origin: OriginUser, Tokens: 1})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var buckets []UsageBucket
	require.NoError(t, svc.db.Find(&buckets).Error)
	require.Len(t, buckets, 1)
	require.Equal(t, int64(workers), buckets[0].TokenUsed)
	require.Equal(t, int64(workers), buckets[0].RequestsCount)

	summary, err := svc.Lifetime(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, int64(workers), summary.TokenUsed)
	require.Equal(t, int64(workers), summary.RequestsCount)
	require.Equal(t, int64(workers), summary.UserMessagesCount)
}

func TestRecordRejectsEmptyKey(t *testing.T) {
	svc := newTestService(t, time.Time{})
	require.Error(t, svc.Record(context.Background(), "", EventDelta{}))
}

func TestLifetimeMissingKeyIsNil(t *testing.T) {
	svc := newTestService(t, time.Time{})
	summary, err := svc.Lifetime(context.Background(), "never-seen")
	require.NoError(t, err)
	require.Nil(t, summary)
}

func TestLifetimeDurationExtrema(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	for _, duration := range []int64{50, 10, 80, 10} {
		require.NoError(t, svc.Record(ctx, "key-1", EventDelta{
			ChatCompleted: true,
			ChatDuration:  Int64(duration),
		}))
	}

	summary, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, int64(10), summary.ShortestChatDuration)
	require.Equal(t, int64(80), summary.LongestChatDuration)
	require.Equal(t, int64(4), summary.CompletedChats)
	require.Equal(t, int64(150), summary.TotalChatDuration)
	require.InDelta(t, 37.5, summary.MeanChatDuration(), 1e-9)

	// An event with no duration must leave the extrema alone.
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	summary, err = svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), summary.ShortestChatDuration)
	require.Equal(t, int64(80), summary.LongestChatDuration)
}

func TestLifetimeMeanResponseTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginBot, ResponseTime: Int64(100)}))
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginBot, ResponseTime: Int64(300)}))
	// No response time supplied: must not drag the mean down.
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))

	summary, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.ResponseCount)
	require.InDelta(t, 200.0, summary.MeanResponseTime(), 1e-9)
}

func TestRecalculateActivityWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 20, 30, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	busy := time.Date(2024, 6, 15, 9, 15, 0, 0, time.UTC)
	quiet := time.Date(2024, 6, 15, 3, 45, 0, 0, time.UTC)

	svc.now = func() time.Time { return busy }
	for range 5 {
		require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	}
	svc.now = func() time.Time { return quiet }
	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))

	svc.now = func() time.Time { return now }
	require.NoError(t, svc.RecalculateActivityWindow(ctx, "key-1"))

	summary, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, 9, summary.MostActiveHour)
	require.Equal(t, 3, summary.LeastActiveHour)
}

func TestRecalculateActivityWindowEmptyIsNoOp(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	require.NoError(t, svc.RecalculateActivityWindow(ctx, "key-1"))

	before, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, 9, before.MostActiveHour)

	// Jump far past the trailing window: no buckets inside it anymore.
	svc.now = func() time.Time { return now.AddDate(0, 1, 0) }
	require.NoError(t, svc.RecalculateActivityWindow(ctx, "key-1"))

	after, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, before.MostActiveHour, after.MostActiveHour)
	require.Equal(t, before.LeastActiveHour, after.LeastActiveHour)
}

func TestActiveKeysSince(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	svc.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, svc.Record(ctx, "stale-key", EventDelta{Origin: OriginUser}))
	svc.now = func() time.Time { return now }
	require.NoError(t, svc.Record(ctx, "fresh-key", EventDelta{Origin: OriginUser}))

	keys, err := svc.ActiveKeysSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{"fresh-key"}, keys)
}

func TestDeleteKeyRemovesBothStores(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "key-1", EventDelta{Origin: OriginUser}))
	require.NoError(t, svc.Record(ctx, "key-2", EventDelta{Origin: OriginUser}))

	require.NoError(t, svc.DeleteKey(ctx, "key-1"))

	summary, err := svc.Lifetime(ctx, "key-1")
	require.NoError(t, err)
	require.Nil(t, summary)

	var count int64
	require.NoError(t, svc.db.Model(&UsageBucket{}).Where("api_key_id = ?", "key-1").Count(&count).Error)
	require.Zero(t, count)

	// The other key is untouched.
	other, err := svc.Lifetime(ctx, "key-2")
	require.NoError(t, err)
	require.NotNil(t, other)
}
