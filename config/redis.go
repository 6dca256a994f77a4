package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"blog-toolkit/logger"
)

var RedisClient *redis.Client

// ConnectRedis initializes Redis connection. The service keeps running
// without a cache when Redis is unreachable.
func ConnectRedis() {
	addr := GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379")

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		logger.L().Warn("Redis connection failed, continuing without caching",
			logger.String("addr", addr), logger.Err(err))
		RedisClient = nil
		return
	}
	logger.L().Info("Redis connected successfully", logger.String("addr", addr))
}

// SetRedis replaces the Redis client. Pass nil to disable caching.
func SetRedis(client *redis.Client) {
	RedisClient = client
}

// GetRedis returns the Redis client instance
func GetRedis() *redis.Client {
	return RedisClient
}
