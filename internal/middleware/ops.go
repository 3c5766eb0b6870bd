package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// RequireOpsToken gates the stop-edit surface behind a shared token.
// Stops are edited by operations tooling, never by the app's own users.
func RequireOpsToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("OPS_TOKEN")
		if expected == "" || c.GetHeader("X-Ops-Token") != expected {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
