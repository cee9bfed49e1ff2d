package routes

import (
	"net/http"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/middleware"
	"food-ordering-api/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the shared middleware stack, the health
// and metrics endpoints, and every API route.
func NewRouter(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
		corsConfig.AllowCredentials = true
	}

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(config.Logger),
		middleware.Metrics(),
		cors.New(corsConfig),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Ordering API",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	SetupRoutes(r)
	return r
}
