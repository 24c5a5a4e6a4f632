package middleware

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
)

// abortWithMessage rejects the request with the standard failure envelope and
// stops the handler chain.
func abortWithMessage(c *gin.Context, statusCode int, message string) {
	gmw.GetLogger(c).Warn("request aborted",
		zap.Int("status_code", statusCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", message))
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

// abortUnauthorized is the common exit for every failed auth check.
func abortUnauthorized(c *gin.Context, message string) {
	abortWithMessage(c, http.StatusUnauthorized, message)
}
