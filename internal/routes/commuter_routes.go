package routes

import (
	"commuter_bus/internal/controllers"
	"commuter_bus/internal/middleware"
	"commuter_bus/internal/session"

	"github.com/gin-gonic/gin"
)

func CommuterRoutes(r *gin.Engine) {
	commuter := r.Group("/commuter")
	commuter.Use(middleware.RequireSessionWithRole(session.RoleRider))
	{
		commuter.GET("/routes", controllers.ListStops)
		commuter.POST("/routes/search", controllers.SearchRoutes)
		commuter.GET("/map", controllers.StopsMap)
		commuter.POST("/locate", controllers.Locate)
		commuter.GET("/account", controllers.GetRiderAccount)
		commuter.PUT("/account", controllers.UpdateRiderProfile)
		commuter.POST("/account/password", controllers.ResetRiderPassword)
	}
}
