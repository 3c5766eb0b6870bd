package routes

import (
	"commuter_bus/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/routes", controllers.HandleRoutesWebSocket)
	}
}
