package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"commuter_bus/internal/feed"
	"commuter_bus/internal/session"
)

var (
	sessions *session.Store
	resolver *session.Resolver
	hub      *feed.Hub
)

// Init wires the handlers' shared collaborators. Called once at boot.
func Init(store *session.Store, res *session.Resolver, h *feed.Hub) {
	sessions = store
	resolver = res
	hub = h
}

// deviceID returns the caller's device identifier, minting one when the
// client has none yet. The ID is echoed back so the client can persist it.
func deviceID(c *gin.Context) string {
	if d := c.GetHeader("X-Device-ID"); d != "" {
		return d
	}
	return uuid.NewString()
}
