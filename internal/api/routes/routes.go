package routes

import (
	"net/http"

	"github.com/DriveRegistry/DriveRegistry/internal/api/handlers"
	"github.com/DriveRegistry/DriveRegistry/internal/common/config"
	"github.com/DriveRegistry/DriveRegistry/internal/common/logger"
	"github.com/DriveRegistry/DriveRegistry/internal/common/middleware"
	"github.com/DriveRegistry/DriveRegistry/internal/vehicle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter 组装全部路由与中间件链。
func SetupRouter(cfg *config.Config, log logger.Logger, svc *vehicle.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.Tracing(cfg.Server.Name),
		middleware.AccessLog(log),
		middleware.RateLimit(middleware.NewTokenBucket(200, 100)),
		cors.Default(),
	)

	// Consul HTTP check 探测点
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	vehicleHandler := &handlers.VehicleHandler{Service: svc, Log: log}
	typeHandler := &handlers.VehicleTypeHandler{Service: svc, Log: log}

	requireAuth := middleware.RequireAuth(cfg.Auth)
	optionalAuth := middleware.OptionalAuth(cfg.Auth)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/vehicle-types", typeHandler.List)

		vehicles := apiV1.Group("/vehicles")
		{
			// 公开（可选鉴权）路由
			vehicles.GET("", optionalAuth, vehicleHandler.List)
			vehicles.GET("/:id", optionalAuth, vehicleHandler.Show)

			// 需要鉴权的路由
			vehicles.GET("/unapproved", requireAuth, vehicleHandler.Unapproved)
			vehicles.POST("", requireAuth, vehicleHandler.Create)
			vehicles.PUT("/:id", requireAuth, vehicleHandler.Update)
			vehicles.DELETE("/:id", requireAuth, vehicleHandler.Delete)
			vehicles.PATCH("/:id/approve", requireAuth, vehicleHandler.Approve)
		}
	}

	return router
}
