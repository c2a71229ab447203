package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the gin engine, grounded on order_service/main.go's
// initHTTPServer/setupRoutes.
func NewRouter(environment string, controller *RewardsController) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware())

	router.GET("/health", controller.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/rewards", controller.PostRewards)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/health/detailed", controller.DetailedHealth)
	}

	return router
}
