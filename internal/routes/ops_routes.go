package routes

import (
	"commuter_bus/internal/controllers"
	"commuter_bus/internal/middleware"

	"github.com/gin-gonic/gin"
)

func OpsRoutes(r *gin.Engine) {
	ops := r.Group("/ops")
	ops.Use(middleware.RequireOpsToken())
	{
		ops.PUT("/stops", controllers.ReplaceStops)
		ops.POST("/stops", controllers.AppendStops)
	}
}
