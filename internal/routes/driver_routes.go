package routes

import (
	"commuter_bus/internal/controllers"
	"commuter_bus/internal/middleware"
	"commuter_bus/internal/session"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireSessionWithRole(session.RoleDriver))
	{
		driver.GET("/routes", controllers.DriverStops)
		driver.GET("/routes/completed", controllers.CompletedStops)
		driver.GET("/account", controllers.GetDriverAccount)
		driver.PUT("/account", controllers.UpdateDriverProfile)
		driver.POST("/account/password", controllers.ResetDriverPassword)
	}
}
