package router

import (
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/controller"
	"github.com/widgetly/chat-api/middleware"
)

// SetWidgetRouter mounts the surface embedded widgets talk to. Every route
// authenticates by the widget's API key; this is the hot path that feeds the
// usage statistics.
func SetWidgetRouter(server *gin.Engine) {
	widgetRouter := server.Group("/widget")
	widgetRouter.Use(middleware.ApiKeyAuth())
	{
		widgetRouter.GET("/config", controller.GetWidgetConfig)
		widgetRouter.POST("/chat", controller.CreateChat)
		widgetRouter.GET("/chat/:chat_id/messages", controller.GetWidgetChatMessages)
		widgetRouter.POST("/chat/:chat_id/message", controller.PostMessage)
		widgetRouter.POST("/chat/:chat_id/close", controller.CloseChat)
	}
}
