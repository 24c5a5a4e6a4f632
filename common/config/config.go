package config

import (
	"strings"

	"github.com/widgetly/chat-api/common/env"
)

var (
	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)
	// DebugSQLEnabled toggles per-query SQL logging when DEBUG_SQL=true.
	DebugSQLEnabled = env.Bool("DEBUG_SQL", false)

	// SQLDSN selects the database: postgres:// DSN for PostgreSQL, any other
	// non-empty DSN for MySQL, empty for the bundled SQLite file.
	SQLDSN = strings.TrimSpace(env.String("SQL_DSN", ""))
	// SQLitePath is the SQLite database file used when SQL_DSN is not set.
	SQLitePath = env.String("SQLITE_PATH", "chat-api.db")

	// SQLMaxIdleConns caps idle connections in the database pool.
	SQLMaxIdleConns = env.Int("SQL_MAX_IDLE_CONNS", 100)
	// SQLMaxOpenConns caps open connections in the database pool.
	SQLMaxOpenConns = env.Int("SQL_MAX_OPEN_CONNS", 1000)
	// SQLMaxLifetimeSeconds bounds how long a pooled connection may live.
	SQLMaxLifetimeSeconds = env.Int("SQL_MAX_LIFETIME", 60)

	// RedisConnString enables the Redis API-key cache when set.
	RedisConnString = env.String("REDIS_CONN_STRING", "")
	// RedisPassword is used in Redis cluster/sentinel mode.
	RedisPassword = env.String("REDIS_PASSWORD", "")
	// RedisMasterName switches the client into sentinel mode when set.
	RedisMasterName = env.String("REDIS_MASTER_NAME", "")

	// ApiKeyCacheSeconds is the TTL for cached API-key lookups on the widget path.
	ApiKeyCacheSeconds = env.Int("APIKEY_CACHE_SECONDS", 300)

	// JWTSecret verifies externally issued admin tokens. Token issuance is not
	// part of this service.
	JWTSecret = env.String("JWT_SECRET", "")

	// ApiKeyDeactivateFrequency is the interval in seconds between expired-key
	// sweeps. Key-expiry precision is coarse, hourly is enough.
	ApiKeyDeactivateFrequency = env.Int("APIKEY_DEACTIVATE_FREQUENCY", 3600)
	// NewsPublishFrequency is the interval in seconds between scheduled-news
	// sweeps. Publish-time precision matters to users, so it runs tighter.
	NewsPublishFrequency = env.Int("NEWS_PUBLISH_FREQUENCY", 300)
	// ActivityRecalcFrequency is the interval in seconds between
	// most/least-active-hour recalculations.
	ActivityRecalcFrequency = env.Int("ACTIVITY_RECALC_FREQUENCY", 3600)

	// OpenAIAPIKey authenticates the upstream answer generator.
	OpenAIAPIKey = env.String("OPENAI_API_KEY", "")
	// OpenAIBaseURL overrides the upstream endpoint, e.g. for a proxy.
	OpenAIBaseURL = env.String("OPENAI_BASE_URL", "")
	// ChatModel is the default completion model when a bot does not set one.
	ChatModel = env.String("CHAT_MODEL", "gpt-4o-mini")
	// ChatCompletionTimeout bounds a single upstream completion call (seconds).
	ChatCompletionTimeout = env.Int("CHAT_COMPLETION_TIMEOUT", 120)

	// EnablePrometheusMetrics exposes the /metrics endpoint when true.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", true)

	// DefaultItemsPerPage and MaxItemsPerPage bound paginated list responses.
	DefaultItemsPerPage = env.Int("DEFAULT_ITEMS_PER_PAGE", 20)
	MaxItemsPerPage     = env.Int("MAX_ITEMS_PER_PAGE", 100)
)
