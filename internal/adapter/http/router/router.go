package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/http/handler"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/http/middleware"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/service"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/config"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(model service.Model, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.Secure(middleware.SecureOptions{
		SSLRedirect:   cfg.Security.SSLRedirect,
		SSLHost:       cfg.Security.SSLHost,
		IsDevelopment: cfg.Server.Mode == gin.DebugMode,
	}))
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins...))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(model)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize usecases
	predictUC := usecase.NewPredictUsecase(model, logger)

	// Initialize handlers
	predictHandler := handler.NewPredictHandler(predictUC)

	router.POST("/predict", predictHandler.Predict)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/predict", predictHandler.Predict)
	}

	return router
}
