package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still holds our token, so a
// lock that expired and was taken by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// TryLock acquires key for ttl without blocking. In bypass mode the lock is
// always granted; storage constraints still guard correctness.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if r.bypass() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, r.observe(err)
	}
	if ok {
		r.owners.Store(key, token)
	}
	return ok, nil
}

// Unlock releases a lock taken by TryLock in this process. Unknown keys are a
// no-op.
func (r *Redis) Unlock(ctx context.Context, key string) error {
	if r.bypass() {
		return nil
	}
	token, ok := r.owners.LoadAndDelete(key)
	if !ok {
		return nil
	}
	return r.observe(releaseScript.Run(ctx, r.client, []string{key}, token).Err())
}
