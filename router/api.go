package router

import (
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/controller"
	"github.com/widgetly/chat-api/middleware"
)

// SetApiRouter mounts the dashboard API. Everything except the status probe
// and the public news feed requires a dashboard token.
func SetApiRouter(server *gin.Engine) {
	apiRouter := server.Group("/api")
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.GET("/news", controller.GetPublishedNews)

		selfRoute := apiRouter.Group("/user")
		selfRoute.Use(middleware.UserAuth())
		{
			selfRoute.GET("/self", controller.GetSelf)
		}

		userRoute := apiRouter.Group("/user")
		userRoute.Use(middleware.ManagerAuth())
		{
			userRoute.GET("", controller.GetAllUsers)
			userRoute.POST("", controller.AddUser)
			userRoute.GET("/:id", controller.GetUser)
			userRoute.PUT("/:id", controller.UpdateUser)
			userRoute.DELETE("/:id", controller.DeleteUser)
		}

		botRoute := apiRouter.Group("/bot")
		botRoute.Use(middleware.UserAuth())
		{
			botRoute.GET("", controller.GetAllBots)
			botRoute.POST("", controller.AddBot)
			botRoute.GET("/:id", controller.GetBot)
			botRoute.PUT("/:id", controller.UpdateBot)
			botRoute.DELETE("/:id", controller.DeleteBot)
		}

		apiKeyRoute := apiRouter.Group("/apikey")
		apiKeyRoute.Use(middleware.UserAuth())
		{
			apiKeyRoute.GET("", controller.GetAllApiKeys)
			apiKeyRoute.POST("", controller.AddApiKey)
			apiKeyRoute.GET("/:id", controller.GetApiKey)
			apiKeyRoute.PUT("/:id", controller.UpdateApiKey)
			apiKeyRoute.DELETE("/:id", controller.DeleteApiKey)

			apiKeyRoute.GET("/:id/chat", controller.GetApiKeyChats)
			apiKeyRoute.POST("/:id/chat/:chat_id/message", controller.PostOperatorMessage)

			apiKeyRoute.GET("/:id/statistics", controller.GetLifetimeStatistics)
			apiKeyRoute.GET("/:id/statistics/last24h", controller.GetLast24HoursStatistics)
			apiKeyRoute.GET("/:id/statistics/day", controller.GetDayStatistics)
			apiKeyRoute.GET("/:id/statistics/month", controller.GetMonthStatistics)
			apiKeyRoute.GET("/:id/statistics/year", controller.GetYearStatistics)
			apiKeyRoute.GET("/:id/statistics/last30d", controller.GetLast30DaysStatistics)
			apiKeyRoute.GET("/:id/statistics/last12m", controller.GetLast12MonthsStatistics)
		}

		newsRoute := apiRouter.Group("/admin/news")
		newsRoute.Use(middleware.ManagerAuth())
		{
			newsRoute.GET("", controller.GetAllNews)
			newsRoute.POST("", controller.AddNews)
			newsRoute.GET("/:id", controller.GetNews)
			newsRoute.PUT("/:id", controller.UpdateNews)
			newsRoute.DELETE("/:id", controller.DeleteNews)
		}

		orderRoute := apiRouter.Group("/order")
		orderRoute.Use(middleware.UserAuth())
		{
			orderRoute.GET("", controller.GetAllOrders)
			orderRoute.POST("", controller.AddOrder)
			orderRoute.GET("/:id", controller.GetOrder)
			orderRoute.PUT("/:id/status", middleware.ManagerAuth(), controller.UpdateOrderStatus)
		}
	}
}
