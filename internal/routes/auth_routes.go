package routes

import (
	"commuter_bus/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/user/signup", controllers.SignupRider)
		auth.POST("/user/login", controllers.LoginRider)
		auth.POST("/driver/signup", controllers.SignupDriver)
		auth.POST("/driver/login", controllers.LoginDriver)
	}
}
