package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/random"
)

func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := random.GetUUID()
		c.Set(ctxkey.RequestId, id)
		c.Header(ctxkey.RequestId, id)
		c.Next()
	}
}
