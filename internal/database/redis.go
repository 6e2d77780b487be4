package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs sessions, magic-link tokens, rate limiting, picture
// identities, and the portal content cache.
var RedisClient *redis.Client

// ConnectRedis opens the shared client and verifies it with a ping.
func ConnectRedis(redisURI string) error {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return err
	}

	// Small site, small pool. Read/write timeouts stay short so a slow
	// Redis degrades to fail-open rate limiting instead of hung requests.
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	RedisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	log.Println("✅ Connected to Redis")
	return nil
}

// DisconnectRedis closes the shared client.
func DisconnectRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
