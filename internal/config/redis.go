package config

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// Redis is the globally accessible session-store client
	Redis *redis.Client
)

// InitRedis connects the session-store client and pings it once so a
// misconfigured address fails at boot rather than on the first login.
func InitRedis() {
	dbNum, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cli := redis.NewClient(&redis.Options{
		Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           dbNum,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	Redis = cli
}
