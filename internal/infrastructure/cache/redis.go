package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"hireflow/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultTTL       = 10 * time.Minute
	startupPingLimit = 2 * time.Second
	scanBatch        = 200
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis caches JSON values and hands out short-lived locks. When the server is
// unreachable at startup it runs in bypass mode: reads miss, writes are
// dropped and every lock is granted.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	// owners maps a held lock key to the token written by this process.
	owners sync.Map
	warned atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Redis{ttl: cfg.TTL, logger: logger}
	if r.ttl <= 0 {
		r.ttl = defaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), startupPingLimit)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", zap.Error(err))
		_ = client.Close()
		return r
	}
	r.client = client
	return r
}

func (r *Redis) bypass() bool { return r == nil || r.client == nil }

// observe logs the first transport failure seen after startup.
func (r *Redis) observe(err error) error {
	if err != nil && r.logger != nil && r.warned.CompareAndSwap(false, true) {
		r.logger.Warn("redis call failed", zap.Error(err))
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.bypass() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.bypass() {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes the value at key into out and reports whether it was found.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.bypass() {
		return false, nil
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, r.observe(err)
	case len(raw) == 0:
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key. A non-positive ttl uses the configured default.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.bypass() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.observe(r.client.Set(ctx, key, raw, ttl).Err())
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r.bypass() || len(keys) == 0 {
		return nil
	}
	return r.observe(r.client.Unlink(ctx, keys...).Err())
}

// DeleteByPattern removes every key matching pattern, unlinking them in
// SCAN-sized batches.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.bypass() || pattern == "" {
		return nil
	}
	batch := make([]string, 0, scanBatch)
	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return r.observe(err)
	}
	return r.Delete(ctx, batch...)
}
