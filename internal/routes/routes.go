package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery and request logging must be attached before any group
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	SessionRoutes(r)
	AuthRoutes(r)
	CommuterRoutes(r)
	DriverRoutes(r)
	OpsRoutes(r)
	WebSocketRoutes(r)

	return r
}
