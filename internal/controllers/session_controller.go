package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commuter_bus/internal/session"
)

// ResolveSession is the splash-screen bootstrap: from the device's
// persisted state alone, decide which screen the client lands on.
func ResolveSession(c *gin.Context) {
	device := c.GetHeader("X-Device-ID")
	if device == "" {
		// A device with no identifier cannot have a session.
		c.JSON(http.StatusOK, gin.H{"target": session.TargetRoleSelect})
		return
	}

	target := resolver.Resolve(c.Request.Context(), device)
	c.JSON(http.StatusOK, gin.H{"target": target, "device_id": device})
}

// ValidateSession runs the login-screen guard for one role: a session
// whose email no longer resolves to an account is removed and the client
// is pointed back at that role's login screen.
func ValidateSession(c *gin.Context) {
	device := c.GetHeader("X-Device-ID")
	role := session.Role(c.Query("role"))
	if role != session.RoleRider && role != session.RoleDriver {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	if device == "" {
		c.JSON(http.StatusOK, gin.H{"valid": false, "target": session.LoginTarget(role)})
		return
	}

	rec, ok, err := sessions.Lookup(c.Request.Context(), role, device)
	if err != nil || !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "target": session.LoginTarget(role)})
		return
	}

	if !resolver.Validate(c.Request.Context(), role, device, rec.Email) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "target": session.LoginTarget(role)})
		return
	}

	target := session.TargetRiderMain
	if role == session.RoleDriver {
		target = session.TargetDriverMain
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "target": target})
}

// Logout removes both session keys regardless of which role was active
// and sends the client back to role selection.
func Logout(c *gin.Context) {
	device := c.GetHeader("X-Device-ID")
	if device == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Device-ID header required"})
		return
	}

	if err := sessions.Teardown(c.Request.Context(), device); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"target": session.TargetRoleSelect})
}
