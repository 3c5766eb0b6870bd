package main

import (
	"log"
	"net/http"
	"os"

	"commuter_bus/internal/config"
	"commuter_bus/internal/controllers"
	"commuter_bus/internal/feed"
	"commuter_bus/internal/logger"
	"commuter_bus/internal/middleware"
	"commuter_bus/internal/routes"
	"commuter_bus/internal/session"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and the session store
	config.InitDB()
	config.InitRedis()

	store := session.NewStore(session.NewRedisKV(config.Redis))
	resolver := session.NewResolver(store, session.NewDirectory(config.DB))
	hub := feed.NewHub()

	middleware.UseSessionStore(store)
	controllers.Init(store, resolver, hub)

	// Stop edits arrive from outside the app when a broker is configured
	if url := os.Getenv("AMQP_URL"); url != "" {
		if err := feed.StartConsumer(url, config.DB, hub); err != nil {
			log.Fatalf("failed to start stop-update consumer: %v", err)
		}
	}

	// Setup Gin router (recovery + request logging attached inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + envOr("PORT", "8080")
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
