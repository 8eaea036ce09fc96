package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/panelkit/daily-checkin/config"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedis returns the shared Redis client, created lazily from config. Redis
// is strictly a cache here (settings, overview), never a source of truth, so
// callers must tolerate it being down.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		redisClient = newRedisClient(config.Get())
	})
	return redisClient
}

func newRedisClient(cfg config.AppConfig) *redis.Client {
	rc := redis.NewClient(&redis.Options{
		Addr:            net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:        cfg.RedisPassword,
		DB:              cfg.RedisDB,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	// Probe once at creation so a misconfigured address shows up in the boot
	// log instead of as silent cache misses.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unreachable, caching degraded: %v", err)
	}
	return rc
}
