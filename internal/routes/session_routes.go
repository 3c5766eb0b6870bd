package routes

import (
	"commuter_bus/internal/controllers"

	"github.com/gin-gonic/gin"
)

// SessionRoutes carry no auth middleware: resolve runs on the splash
// screen and validate on login-screen mounts, both before any token
// exists.
func SessionRoutes(r *gin.Engine) {
	sess := r.Group("/session")
	{
		sess.GET("/resolve", controllers.ResolveSession)
		sess.GET("/validate", controllers.ValidateSession)
		sess.POST("/logout", controllers.Logout)
	}
}
