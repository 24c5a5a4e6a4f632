package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS is wide open on purpose: widgets are embedded on arbitrary customer
// sites, so the origin set is unbounded. Auth rides in the bearer header,
// never in cookies, so credentials stay disabled.
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept"}
	return cors.New(config)
}
