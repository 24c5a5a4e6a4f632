package stats

import (
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/widgetly/chat-api/dto"
)

// UsageBucket is one row of the counter store: additive counters for one
// API key within one UTC hour. TimeInterval is the Unix second of the hour
// start (always produced by helper.TruncateToHourUTC). The composite unique
// index guarantees at most one row per (key, hour); concurrent events in the
// same hour accumulate into it via the upsert below, never duplicate it.
type UsageBucket struct {
	Id                   int    `json:"id"`
	ApiKeyId             string `json:"api_key_id" gorm:"type:varchar(64);uniqueIndex:idx_usage_key_interval,priority:1"`
	TimeInterval         int64  `json:"time_interval" gorm:"bigint;uniqueIndex:idx_usage_key_interval,priority:2;index"`
	TokenUsed            int64  `json:"token_used" gorm:"bigint;default:0"`
	ChatsStarted         int64  `json:"chats_started" gorm:"bigint;default:0"`
	MessagesSent         int64  `json:"messages_sent" gorm:"bigint;default:0"`
	MessagesFromBot      int64  `json:"messages_from_bot" gorm:"bigint;default:0"`
	MessagesFromOperator int64  `json:"messages_from_operator" gorm:"bigint;default:0"`
	MessagesFromUser     int64  `json:"messages_from_user" gorm:"bigint;default:0"`
	RequestsCount        int64  `json:"requests_count" gorm:"bigint;default:0"`
	CreatedAt            int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt            int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (UsageBucket) TableName() string {
	return "api_key_usages"
}

// Counters converts the bucket row into the shared additive shape.
func (b *UsageBucket) Counters() dto.UsageCounters {
	return dto.UsageCounters{
		TokenUsed:            b.TokenUsed,
		ChatsStarted:         b.ChatsStarted,
		MessagesSent:         b.MessagesSent,
		MessagesFromBot:      b.MessagesFromBot,
		MessagesFromOperator: b.MessagesFromOperator,
		MessagesFromUser:     b.MessagesFromUser,
		RequestsCount:        b.RequestsCount,
	}
}

// upsertBucket applies delta to the (apiKeyId, bucket) row as a single
// conditional write: insert seeded with the delta, or increment in place on
// conflict. A read-then-write here would lose concurrent increments.
func upsertBucket(tx *gorm.DB, apiKeyId string, bucket time.Time, delta EventDelta) error {
	sent, bot, operator, user := delta.messageCounts()
	started := delta.chatStartedCount()

	row := UsageBucket{
		ApiKeyId:             apiKeyId,
		TimeInterval:         bucket.Unix(),
		TokenUsed:            delta.Tokens,
		ChatsStarted:         started,
		MessagesSent:         sent,
		MessagesFromBot:      bot,
		MessagesFromOperator: operator,
		MessagesFromUser:     user,
		RequestsCount:        1,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "api_key_id"}, {Name: "time_interval"}},
		DoUpdates: clause.Assignments(map[string]any{
			"token_used":             gorm.Expr("token_used + ?", delta.Tokens),
			"chats_started":          gorm.Expr("chats_started + ?", started),
			"messages_sent":          gorm.Expr("messages_sent + ?", sent),
			"messages_from_bot":      gorm.Expr("messages_from_bot + ?", bot),
			"messages_from_operator": gorm.Expr("messages_from_operator + ?", operator),
			"messages_from_user":     gorm.Expr("messages_from_user + ?", user),
			"requests_count":         gorm.Expr("requests_count + 1"),
		}),
	}).Create(&row).Error
	return errors.Wrapf(err, "upsert usage bucket: key=%s interval=%d", apiKeyId, bucket.Unix())
}

// queryBucketRange returns all buckets for the key with from <= time < to,
// ascending by bucket time. The upper bound is deliberately exclusive: an
// inclusive BETWEEN would return the bucket starting exactly at to, and
// adjacent windows would then overlap by one hour. Callers bound the range;
// the rollup aggregator never asks for more than one year of hours.
func queryBucketRange(tx *gorm.DB, apiKeyId string, from, to time.Time) ([]UsageBucket, error) {
	var buckets []UsageBucket
	err := tx.
		Where("api_key_id = ? AND time_interval >= ? AND time_interval < ?", apiKeyId, from.Unix(), to.Unix()).
		Order("time_interval asc").
		Find(&buckets).Error
	if err != nil {
		return nil, errors.Wrapf(err, "query usage buckets: key=%s", apiKeyId)
	}
	return buckets, nil
}

// sumBucketRange returns the field-wise sum of all buckets in [from, to).
func sumBucketRange(tx *gorm.DB, apiKeyId string, from, to time.Time) (dto.UsageCounters, error) {
	var totals dto.UsageCounters
	err := tx.Model(&UsageBucket{}).
		Select("COALESCE(SUM(token_used), 0) as token_used, " +
			"COALESCE(SUM(chats_started), 0) as chats_started, " +
			"COALESCE(SUM(messages_sent), 0) as messages_sent, " +
			"COALESCE(SUM(messages_from_bot), 0) as messages_from_bot, " +
			"COALESCE(SUM(messages_from_operator), 0) as messages_from_operator, " +
			"COALESCE(SUM(messages_from_user), 0) as messages_from_user, " +
			"COALESCE(SUM(requests_count), 0) as requests_count").
		Where("api_key_id = ? AND time_interval >= ? AND time_interval < ?", apiKeyId, from.Unix(), to.Unix()).
		Scan(&totals).Error
	if err != nil {
		return dto.UsageCounters{}, errors.Wrapf(err, "sum usage buckets: key=%s", apiKeyId)
	}
	return totals, nil
}
