package delivery

import (
	"time"

	"paidmedia/internal/delivery/middleware"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(30 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/providers", r.handlers.ListProviders)

		project := v1.Group("/projects/:project_id")
		{
			// Metrics endpoints
			metricsGroup := project.Group("/metrics")
			{
				metricsGroup.GET("", r.handlers.GetAggregatedMetrics)
				metricsGroup.GET("/by-provider", r.handlers.GetMetricsByProvider)
				metricsGroup.GET("/providers/:provider", r.handlers.GetMetricsFromProvider)
				metricsGroup.GET("/summary", r.handlers.GetMetricsSummary)
			}

			// Hierarchy endpoints
			hierarchy := project.Group("/hierarchy")
			{
				hierarchy.GET("", r.handlers.GetAggregatedHierarchy)
				hierarchy.GET("/by-provider", r.handlers.GetHierarchyByProvider)
				hierarchy.GET("/providers/:provider", r.handlers.GetHierarchyFromProvider)
			}

			// Data health endpoints
			health := project.Group("/data-health")
			{
				health.GET("", r.handlers.GetAggregatedDataHealth)
				health.GET("/by-provider", r.handlers.GetDataHealthByProvider)
				health.GET("/providers/:provider", r.handlers.GetDataHealthFromProvider)
			}
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
