package ctxkey

const (
	Id        = "id"
	Role      = "role"
	Username  = "username"
	RequestId = "X-Chatapi-Request-Id"

	ApiKey   = "api_key"
	ApiKeyId = "api_key_id"
	BotId    = "bot_id"
)
