package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/model"
)

// ApiKeyAuth authenticates widget traffic by the embedded bearer key. The
// lookup goes through the API-key cache since this runs on every widget
// message.
func ApiKeyAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
		key = strings.TrimSpace(key)
		if key == "" {
			abortUnauthorized(c, "api key is missing")
			return
		}
		apiKey, err := model.CacheGetApiKeyByKey(c.Request.Context(), key)
		if err != nil {
			abortUnauthorized(c, "api key is invalid")
			return
		}
		if !apiKey.IsApiKeyUsable() {
			abortUnauthorized(c, "api key is inactive or expired")
			return
		}
		go model.TouchApiKey(apiKey.Id)
		c.Set(ctxkey.ApiKey, apiKey.Key)
		c.Set(ctxkey.ApiKeyId, apiKey.Id)
		c.Set(ctxkey.BotId, apiKey.BotId)
		c.Next()
	}
}
