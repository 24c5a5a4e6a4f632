package stats

import (
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApiKeyStatistics is the lifetime summary: one row per API key, updated
// incrementally on every event. It deliberately is NOT derived from bucket
// sums — extrema come from individual events and the active-hour pair from a
// trailing 24h window, so bucket sums only approximate these totals. The two
// stores are eventually consistent, not reconcilable; deriving one from the
// other would change the observable active-hour/extrema semantics.
type ApiKeyStatistics struct {
	Id                    int    `json:"id"`
	ApiKeyId              string `json:"api_key_id" gorm:"type:varchar(64);uniqueIndex"`
	TokenUsed             int64  `json:"token_used" gorm:"bigint;default:0"`
	TotalChatsStarted     int64  `json:"total_chats_started" gorm:"bigint;default:0"`
	TotalMessagesSent     int64  `json:"total_messages_sent" gorm:"bigint;default:0"`
	BotMessagesCount      int64  `json:"bot_messages_count" gorm:"bigint;default:0"`
	OperatorMessagesCount int64  `json:"operator_messages_count" gorm:"bigint;default:0"`
	UserMessagesCount     int64  `json:"user_messages_count" gorm:"bigint;default:0"`
	RequestsCount         int64  `json:"requests_count" gorm:"bigint;default:0"`
	// TotalResponseTime/ResponseCount give mean response latency (ms).
	TotalResponseTime int64 `json:"total_response_time" gorm:"bigint;default:0"`
	ResponseCount     int64 `json:"response_count" gorm:"bigint;default:0"`
	// CompletedChats/TotalChatDuration give mean chat duration (seconds).
	CompletedChats    int64 `json:"completed_chats" gorm:"bigint;default:0"`
	TotalChatDuration int64 `json:"total_chat_duration" gorm:"bigint;default:0"`
	// Duration extrema in seconds; 0 means no completed chat observed yet.
	ShortestChatDuration int64 `json:"shortest_chat_duration" gorm:"bigint;default:0"`
	LongestChatDuration  int64 `json:"longest_chat_duration" gorm:"bigint;default:0"`
	// UTC hour of day (0-23), recomputed periodically from the trailing 24h
	// window rather than all-time data, to stay responsive to recent behavior.
	MostActiveHour  int   `json:"most_active_hour" gorm:"default:0"`
	LeastActiveHour int   `json:"least_active_hour" gorm:"default:0"`
	CreatedAt       int64 `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt       int64 `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (ApiKeyStatistics) TableName() string {
	return "api_key_statistics"
}

// MeanResponseTime returns the mean response latency in milliseconds.
func (s *ApiKeyStatistics) MeanResponseTime() float64 {
	if s.ResponseCount == 0 {
		return 0
	}
	return float64(s.TotalResponseTime) / float64(s.ResponseCount)
}

// MeanChatDuration returns the mean completed-chat duration in seconds.
func (s *ApiKeyStatistics) MeanChatDuration() float64 {
	if s.CompletedChats == 0 {
		return 0
	}
	return float64(s.TotalChatDuration) / float64(s.CompletedChats)
}

// upsertSummary applies delta to the lifetime row in one conditional write.
// On first event the row is seeded from the delta; afterwards counters add up
// and the duration extrema move only when strictly improved (or never set).
// A duration of 0 counts as "not supplied" for the extrema, matching the
// counter seeding.
func upsertSummary(tx *gorm.DB, apiKeyId string, delta EventDelta, now time.Time) error {
	sent, bot, operator, user := delta.messageCounts()
	started := delta.chatStartedCount()
	responseTime, responseCount := delta.responseTime()
	completed, duration := delta.chatCompletion()

	row := ApiKeyStatistics{
		ApiKeyId:              apiKeyId,
		TokenUsed:             delta.Tokens,
		TotalChatsStarted:     started,
		TotalMessagesSent:     sent,
		BotMessagesCount:      bot,
		OperatorMessagesCount: operator,
		UserMessagesCount:     user,
		RequestsCount:         1,
		TotalResponseTime:     responseTime,
		ResponseCount:         responseCount,
		CompletedChats:        completed,
		TotalChatDuration:     duration,
		ShortestChatDuration:  duration,
		LongestChatDuration:   duration,
		MostActiveHour:        now.UTC().Hour(),
		LeastActiveHour:       now.UTC().Hour(),
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "api_key_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"token_used":              gorm.Expr("token_used + ?", delta.Tokens),
			"total_chats_started":     gorm.Expr("total_chats_started + ?", started),
			"total_messages_sent":     gorm.Expr("total_messages_sent + ?", sent),
			"bot_messages_count":      gorm.Expr("bot_messages_count + ?", bot),
			"operator_messages_count": gorm.Expr("operator_messages_count + ?", operator),
			"user_messages_count":     gorm.Expr("user_messages_count + ?", user),
			"requests_count":          gorm.Expr("requests_count + 1"),
			"total_response_time":     gorm.Expr("total_response_time + ?", responseTime),
			"response_count":          gorm.Expr("response_count + ?", responseCount),
			"completed_chats":         gorm.Expr("completed_chats + ?", completed),
			"total_chat_duration":     gorm.Expr("total_chat_duration + ?", duration),
			// Strict improvement only: equal durations leave the extrema alone.
			"shortest_chat_duration": gorm.Expr(
				"CASE WHEN ? > 0 AND (shortest_chat_duration = 0 OR ? < shortest_chat_duration) THEN ? ELSE shortest_chat_duration END",
				duration, duration, duration),
			"longest_chat_duration": gorm.Expr(
				"CASE WHEN ? > 0 AND (longest_chat_duration = 0 OR ? > longest_chat_duration) THEN ? ELSE longest_chat_duration END",
				duration, duration, duration),
		}),
	}).Create(&row).Error
	return errors.Wrapf(err, "upsert lifetime summary: key=%s", apiKeyId)
}

// recalculateActivityWindow rewrites the most/least-active-hour pair from the
// trailing 24 hours of buckets. The most active hour is the bucket with the
// highest request count; the least active is the lowest among buckets that
// exist. An empty window is a no-op: prior values stay untouched rather than
// being reset.
func recalculateActivityWindow(tx *gorm.DB, apiKeyId string, now time.Time) error {
	end := now.UTC().Truncate(time.Hour).Add(time.Hour)
	start := end.Add(-24 * time.Hour)

	var buckets []UsageBucket
	err := tx.
		Where("api_key_id = ? AND time_interval >= ? AND time_interval < ?", apiKeyId, start.Unix(), end.Unix()).
		Order("requests_count desc, time_interval asc").
		Find(&buckets).Error
	if err != nil {
		return errors.Wrapf(err, "query trailing activity window: key=%s", apiKeyId)
	}
	if len(buckets) == 0 {
		return nil
	}

	mostActive := time.Unix(buckets[0].TimeInterval, 0).UTC().Hour()
	leastActive := time.Unix(buckets[len(buckets)-1].TimeInterval, 0).UTC().Hour()

	err = tx.Model(&ApiKeyStatistics{}).
		Where("api_key_id = ?", apiKeyId).
		Updates(map[string]any{
			"most_active_hour":  mostActive,
			"least_active_hour": leastActive,
		}).Error
	return errors.Wrapf(err, "update activity hours: key=%s", apiKeyId)
}
