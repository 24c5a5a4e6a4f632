package controller

import (
	"context"
	"time"

	"github.com/Laisky/zap"

	"github.com/widgetly/chat-api/common/logger"
	"github.com/widgetly/chat-api/model"
	"github.com/widgetly/chat-api/monitor"
)

// The sweeps below all follow the same contract: each tick runs one bulk
// predicate-driven update, failures are logged and retried on the next tick,
// and a second run over the same state matches nothing. They are started from
// main as long-lived goroutines.

// AutomaticallyDeactivateExpiredApiKeys flips expired keys to inactive every
// frequency seconds.
func AutomaticallyDeactivateExpiredApiKeys(frequency int) {
	for {
		time.Sleep(time.Duration(frequency) * time.Second)
		rows, err := model.DeactivateExpiredApiKeys()
		if err != nil {
			logger.Logger.Error("failed to deactivate expired api keys", zap.Error(err))
			continue
		}
		monitor.ObserveSweep("deactivate_expired_api_keys", rows)
		if rows > 0 {
			logger.Logger.Info("deactivated expired api keys", zap.Int64("count", rows))
		}
	}
}

// AutomaticallyPublishScheduledNews promotes due drafts every frequency
// seconds.
func AutomaticallyPublishScheduledNews(frequency int) {
	for {
		time.Sleep(time.Duration(frequency) * time.Second)
		rows, err := model.PublishScheduledNews()
		if err != nil {
			logger.Logger.Error("failed to publish scheduled news", zap.Error(err))
			continue
		}
		monitor.ObserveSweep("publish_scheduled_news", rows)
		if rows > 0 {
			logger.Logger.Info("published scheduled news", zap.Int64("count", rows))
		}
	}
}

// AutomaticallyRecalculateActivityWindows refreshes the most/least-active
// hours of every key that produced traffic since the previous sweep. A
// per-key failure skips that key and moves on; the next tick covers it again.
func AutomaticallyRecalculateActivityWindows(frequency int) {
	interval := time.Duration(frequency) * time.Second
	for {
		time.Sleep(interval)
		ctx := context.Background()
		keys, err := statsService.ActiveKeysSince(ctx, time.Now().Add(-interval))
		if err != nil {
			logger.Logger.Error("failed to list recently active keys", zap.Error(err))
			continue
		}
		for _, key := range keys {
			if err := statsService.RecalculateActivityWindow(ctx, key); err != nil {
				logger.Logger.Error("failed to recalculate activity window",
					zap.String("key_id", key), zap.Error(err))
			}
		}
		monitor.ObserveSweep("recalculate_activity_windows", int64(len(keys)))
		if len(keys) > 0 {
			logger.Logger.Info("recalculated activity windows", zap.Int("keys", len(keys)))
		}
	}
}
