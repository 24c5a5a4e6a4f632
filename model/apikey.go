package model

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	gocache "github.com/patrickmn/go-cache"

	"github.com/widgetly/chat-api/common"
	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/common/logger"
	"github.com/widgetly/chat-api/common/random"
)

// ApiKey is the billable entity: one key per embedded widget, backed by one
// bot, owned by one business user. All usage statistics are scoped to the
// key's opaque Key value, which stays stable for the key's lifetime.
type ApiKey struct {
	Id     int    `json:"id"`
	Key    string `json:"key" gorm:"type:char(48);uniqueIndex"`
	UserId int    `json:"user_id" gorm:"index"`
	BotId  int    `json:"bot_id" gorm:"index"`
	Name   string `json:"name" gorm:"index"`
	// IsActive gates the widget path; flipped off by hand or by the expiry sweep.
	IsActive bool `json:"is_active" gorm:"default:true"`
	// ExpiredAt is a Unix second; -1 means the key never expires.
	ExpiredAt  int64 `json:"expired_at" gorm:"bigint;default:-1"`
	LastUsedAt int64 `json:"last_used_at" gorm:"bigint;default:0"`
	CreatedAt  int64 `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt  int64 `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

// apiKeyCache is the in-process fallback used on the widget hot path when
// Redis is not configured.
var apiKeyCache = gocache.New(
	time.Duration(config.ApiKeyCacheSeconds)*time.Second,
	10*time.Minute,
)

func (k *ApiKey) Insert() error {
	if k.Key == "" {
		k.Key = random.GenerateKey()
	}
	if k.ExpiredAt == 0 {
		k.ExpiredAt = -1
	}
	// Fresh keys always start active; deactivation is an explicit act.
	k.IsActive = true
	return errors.Wrap(DB.Create(k).Error, "create api key")
}

func (k *ApiKey) Update() error {
	err := DB.Model(k).Select("name", "bot_id", "is_active", "expired_at").Updates(k).Error
	if err != nil {
		return errors.Wrapf(err, "update api key %d", k.Id)
	}
	clearApiKeyCache(context.Background(), k.Key)
	return nil
}

// Delete removes the key row. The caller cascades the statistics cleanup;
// the statistics engine never deletes summaries on its own.
func (k *ApiKey) Delete() error {
	if k.Id == 0 {
		return errors.New("api key id is empty")
	}
	if err := DB.Delete(k).Error; err != nil {
		return errors.Wrapf(err, "delete api key %d", k.Id)
	}
	clearApiKeyCache(context.Background(), k.Key)
	return nil
}

func GetApiKeyById(id int) (*ApiKey, error) {
	if id == 0 {
		return nil, errors.New("api key id is empty")
	}
	var key ApiKey
	if err := DB.First(&key, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get api key by id %d", id)
	}
	return &key, nil
}

func GetApiKeyByKey(key string) (*ApiKey, error) {
	if key == "" {
		return nil, errors.New("api key is empty")
	}
	var apiKey ApiKey
	if err := DB.First(&apiKey, "`key` = ?", key).Error; err != nil {
		return nil, errors.Wrap(err, "get api key")
	}
	return &apiKey, nil
}

func GetAllApiKeys(userId int, startIdx int, num int) ([]*ApiKey, error) {
	var keys []*ApiKey
	query := DB.Order("id desc")
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Limit(num).Offset(startIdx).Find(&keys).Error
	return keys, errors.Wrap(err, "list api keys")
}

func GetApiKeyCount(userId int) (int64, error) {
	var count int64
	query := DB.Model(&ApiKey{})
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Count(&count).Error
	return count, errors.Wrap(err, "count api keys")
}

func apiKeyCacheKey(key string) string {
	return fmt.Sprintf("apikey:%s", key)
}

// CacheGetApiKeyByKey resolves a widget bearer key through Redis (or the
// in-process cache) before falling back to the database. Cached entries go
// stale for at most ApiKeyCacheSeconds, so a just-deactivated key may serve
// until the TTL lapses; deliberate trade for the per-message hot path.
func CacheGetApiKeyByKey(ctx context.Context, key string) (*ApiKey, error) {
	cacheKey := apiKeyCacheKey(key)

	if common.IsRedisEnabled() {
		if cached, err := common.RedisGet(ctx, cacheKey); err == nil {
			var apiKey ApiKey
			if err = json.Unmarshal([]byte(cached), &apiKey); err == nil {
				return &apiKey, nil
			}
			logger.Logger.Warn("failed to decode cached api key", zap.Error(err))
		}
	} else if cached, ok := apiKeyCache.Get(cacheKey); ok {
		apiKey := cached.(ApiKey)
		return &apiKey, nil
	}

	apiKey, err := GetApiKeyByKey(key)
	if err != nil {
		return nil, err
	}

	if common.IsRedisEnabled() {
		if payload, err := json.Marshal(apiKey); err == nil {
			ttl := time.Duration(config.ApiKeyCacheSeconds) * time.Second
			if err = common.RedisSet(ctx, cacheKey, string(payload), ttl); err != nil {
				logger.Logger.Warn("failed to cache api key, continuing", zap.Error(err))
			}
		}
	} else {
		apiKeyCache.SetDefault(cacheKey, *apiKey)
	}
	return apiKey, nil
}

func clearApiKeyCache(ctx context.Context, key string) {
	if key == "" {
		return
	}
	cacheKey := apiKeyCacheKey(key)
	if common.IsRedisEnabled() {
		if err := common.RedisDel(ctx, cacheKey); err != nil {
			logger.Logger.Warn("failed to clear api key cache, continuing", zap.String("key", key), zap.Error(err))
		}
		return
	}
	apiKeyCache.Delete(cacheKey)
}

// TouchApiKey stamps the key's last-used instant; failures only get logged,
// the widget request itself must not fail over bookkeeping.
func TouchApiKey(id int) {
	err := DB.Model(&ApiKey{}).Where("id = ?", id).
		Update("last_used_at", helper.GetTimestamp()).Error
	if err != nil {
		logger.Logger.Warn("failed to touch api key", zap.Int("id", id), zap.Error(err))
	}
}

// DeactivateExpiredApiKeys flips every active key whose expiry instant is
// strictly in the past to inactive in one bulk update, stamping last_used_at.
// Idempotent: a second run matches nothing. Missed runs self-heal on the next
// tick since the predicate persists until satisfied.
func DeactivateExpiredApiKeys() (int64, error) {
	now := helper.GetTimestamp()
	result := DB.Model(&ApiKey{}).
		Where("is_active = ? AND expired_at != -1 AND expired_at < ?", true, now).
		Updates(map[string]any{
			"is_active":    false,
			"last_used_at": now,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deactivate expired api keys")
	}
	return result.RowsAffected, nil
}

// IsApiKeyUsable reports whether the key may serve widget traffic.
func (k *ApiKey) IsApiKeyUsable() bool {
	if !k.IsActive {
		return false
	}
	if k.ExpiredAt != -1 && k.ExpiredAt < helper.GetTimestamp() {
		return false
	}
	return true
}
