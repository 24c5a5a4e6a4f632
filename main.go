package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/widgetly/chat-api/common"
	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/common/logger"
	"github.com/widgetly/chat-api/controller"
	"github.com/widgetly/chat-api/middleware"
	"github.com/widgetly/chat-api/model"
	"github.com/widgetly/chat-api/monitor"
	"github.com/widgetly/chat-api/relay"
	"github.com/widgetly/chat-api/router"
	"github.com/widgetly/chat-api/stats"
)

func main() {
	common.Init()
	logger.SetupLogger()
	logger.Logger.Info(fmt.Sprintf("chat-api %s started", common.Version))

	if os.Getenv("GIN_MODE") != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DebugEnabled {
		logger.Logger.Info("running in debug mode")
	}

	// Initialize SQL Database
	model.InitDB()
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.Logger.Fatal("failed to close database", zap.Error(err))
		}
	}()
	if err := model.CreateAdminAccountIfNeed(); err != nil {
		logger.Logger.Fatal("failed to create admin account", zap.Error(err))
	}

	// Initialize Redis
	if err := common.InitRedisClient(); err != nil {
		logger.Logger.Fatal("failed to initialize Redis", zap.Error(err))
	}

	if config.EnablePrometheusMetrics {
		startTime := time.Unix(common.StartTime, 0)
		if err := monitor.InitPrometheusMonitoring(common.Version, runtime.Version(), startTime); err != nil {
			logger.Logger.Fatal("failed to initialize Prometheus monitoring", zap.Error(err))
		}
		logger.Logger.Info("Prometheus monitoring initialized")
	}

	statsService := stats.NewService(model.DB)
	controller.InitServices(statsService, relay.NewAnswerGenerator())

	// Scheduled maintenance sweeps
	go controller.AutomaticallyDeactivateExpiredApiKeys(config.ApiKeyDeactivateFrequency)
	go controller.AutomaticallyPublishScheduledNews(config.NewsPublishFrequency)
	go controller.AutomaticallyRecalculateActivityWindows(config.ActivityRecalcFrequency)

	server := gin.New()
	server.Use(middleware.PanicRecover())
	server.Use(middleware.RequestId())
	server.Use(gmw.NewLoggerMiddleware(
		gmw.WithLoggerMwColored(),
		gmw.WithLogger(logger.Logger.Named("gin")),
	))
	server.Use(middleware.CORS())
	if config.EnablePrometheusMetrics {
		server.Use(middleware.PrometheusMiddleware())
		server.GET("/metrics", middleware.AdminAuth(), gin.WrapH(promhttp.Handler()))
		logger.Logger.Info("Prometheus metrics endpoint available at /metrics")
	}

	router.SetRouter(server)

	port := os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	logger.Logger.Info("server started", zap.String("port", port))
	if err := server.Run(":" + port); err != nil {
		logger.Logger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
