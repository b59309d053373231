package dependency

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendora/realtime/infrastructure/cache"
	"github.com/vendora/realtime/infrastructure/metrics"
	"github.com/vendora/realtime/infrastructure/persistence/database"
	"github.com/vendora/realtime/presentation/middlewares"
	"github.com/vendora/realtime/presentation/routes"
	"go.uber.org/zap"
)

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	c.registerObservabilityRoutes(router)

	v1 := router.Group("/api/v1")
	{
		v1.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.HandshakeRateLimiterConfig()))

		routes.WebsocketRoutes(v1, c.WebsocketController)
	}

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.Hub != nil {
		c.Hub.Shutdown()
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.TracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	cache.CloseRedis()

	if c.Database != nil {
		if err := database.Close(c.Database); err != nil {
			c.Logger.Error("failed to close database", zap.Error(err))
		}
	}

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	return nil
}
