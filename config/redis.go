package config

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// ConnectToRedis returns nil when no address is configured; callers fall back to
// in-process stores.
func ConnectToRedis(url string) *redis.Client {
	if url == "" {
		log.Warn("redis address is empty, using in-process caches")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Panic("failed to connect to redis: ", err)
	}
	return rdb
}

// EmbeddedRedis starts an in-process redis for ceremony sessions when no address is configured.
// Only suitable for a single instance.
func EmbeddedRedis() (*redis.Client, func()) {
	log.Warn("starting embedded redis for webauthn sessions, do not run more than one instance")
	mr, err := miniredis.Run()
	if err != nil {
		log.Panic("failed to start embedded redis: ", err)
	}
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr.Close
}
