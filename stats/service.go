package stats

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"

	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/dto"
)

// Service is the usage statistics engine. It owns no global state: the store
// handle is injected at construction and every operation goes through it.
type Service struct {
	db *gorm.DB
	// now is the clock used for bucketing and trailing windows; swapped in tests.
	now func() time.Time
}

// NewService builds the statistics engine on top of the given store handle.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		now: time.Now,
	}
}

// Record registers one chat event for the key: the lifetime summary update
// and the current-hour bucket upsert run in a single transaction, so a crash
// between them cannot leave one store ahead of the other. Failures propagate
// to the caller; this engine never retries internally, since the increments
// are not idempotent — the event source must deduplicate any retries.
func (s *Service) Record(ctx context.Context, apiKeyId string, delta EventDelta) error {
	if apiKeyId == "" {
		return errors.New("api key id is empty")
	}
	at := s.now().UTC()
	bucket := helper.TruncateToHourUTC(at)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSummary(tx, apiKeyId, delta, at); err != nil {
			return err
		}
		return upsertBucket(tx, apiKeyId, bucket, delta)
	})
}

// Lifetime returns the lifetime summary row, or nil when the key has no
// recorded activity yet. A missing row is a valid state, not an error.
func (s *Service) Lifetime(ctx context.Context, apiKeyId string) (*ApiKeyStatistics, error) {
	var summary ApiKeyStatistics
	err := s.db.WithContext(ctx).Where("api_key_id = ?", apiKeyId).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get lifetime summary: key=%s", apiKeyId)
	}
	return &summary, nil
}

// RecalculateActivityWindow refreshes the most/least-active-hour pair from
// the trailing 24 hours. Meant to run periodically, not per event.
func (s *Service) RecalculateActivityWindow(ctx context.Context, apiKeyId string) error {
	return recalculateActivityWindow(s.db.WithContext(ctx), apiKeyId, s.now())
}

// QueryRange returns the raw buckets for the key with from <= bucket < to,
// ascending. The range is deliberately half-open: a bucket whose hour start
// equals to is excluded, so callers walking adjacent windows never see a
// bucket twice. Rollup views are usually the better entry point.
func (s *Service) QueryRange(ctx context.Context, apiKeyId string, from, to time.Time) ([]UsageBucket, error) {
	return queryBucketRange(s.db.WithContext(ctx), apiKeyId, from, to)
}

// SumRange returns the field-wise sum of all buckets in [from, to),
// half-open like QueryRange.
func (s *Service) SumRange(ctx context.Context, apiKeyId string, from, to time.Time) (dto.UsageCounters, error) {
	return sumBucketRange(s.db.WithContext(ctx), apiKeyId, from, to)
}

// ActiveKeysSince lists the distinct keys with at least one bucket at or
// after since; the activity sweep uses it to avoid recalculating idle keys.
func (s *Service) ActiveKeysSince(ctx context.Context, since time.Time) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&UsageBucket{}).
		Distinct("api_key_id").
		Where("time_interval >= ?", since.Unix()).
		Pluck("api_key_id", &keys).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active keys")
	}
	return keys, nil
}

// DeleteKey removes the summary row and all buckets for the key. The engine
// never deletes on its own; this runs as part of the owning API key's
// deletion cascade.
func (s *Service) DeleteKey(ctx context.Context, apiKeyId string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("api_key_id = ?", apiKeyId).Delete(&ApiKeyStatistics{}).Error; err != nil {
			return errors.Wrapf(err, "delete lifetime summary: key=%s", apiKeyId)
		}
		if err := tx.Where("api_key_id = ?", apiKeyId).Delete(&UsageBucket{}).Error; err != nil {
			return errors.Wrapf(err, "delete usage buckets: key=%s", apiKeyId)
		}
		return nil
	})
}
