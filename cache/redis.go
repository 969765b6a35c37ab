package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/altvik/plume/config"
)

const opTimeout = 2 * time.Second

// Redis is a Store backed by a shared Redis instance.
type Redis struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewRedis connects a Redis-backed store using the loaded config.
// A failed ping is logged but not fatal; callers fall through to
// recomputation on cache misses.
func NewRedis(cfg config.AppConfig, log *zap.SugaredLogger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil && log != nil {
		log.Warnf("redis ping failed, cache degraded: %v", err)
	}
	return &Redis{client: client, log: log}
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if r.log != nil && err != redis.Nil {
			r.log.Debugf("cache get failed key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil && r.log != nil {
		r.log.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Clear deletes keys matching the prefix using SCAN, bounded to avoid long loops.
func (r *Redis) Clear(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ {
		keys, cur, err := r.client.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := r.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
