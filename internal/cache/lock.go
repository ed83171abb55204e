package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oggyb/desire-match/internal/db"
)

// ErrLockTimeout is returned when the pair lock could not be taken in time.
var ErrLockTimeout = errors.New("pair lock: timed out waiting for lock")

const lockRetryDelay = 20 * time.Millisecond

// deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases a lock taken by LockPair.
type Unlock func(ctx context.Context) error

// KeyForPair is the lock key for the unordered pair {a, b}.
func (c *RedisCache) KeyForPair(a, b uint64) string {
	lo, hi := db.CanonicalPair(a, b)
	return fmt.Sprintf("lock:pair:%d:%d", lo, hi)
}

// LockPair serializes actions on the unordered pair {a, b} across processes.
//
// Behavior:
//   - SET NX PX with a random token; the key expires after ttl even if the
//     holder dies.
//   - Retries until it wins, ttl elapses (ErrLockTimeout) or ctx is done.
//   - The returned Unlock is a no-op once the key expired or changed hands.
func (c *RedisCache) LockPair(ctx context.Context, a, b uint64, ttl time.Duration) (Unlock, error) {
	key := c.KeyForPair(a, b)
	token := uuid.NewString()
	deadline := time.Now().Add(ttl)

	for {
		ok, err := c.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("pair lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, c.Client, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(lockRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
