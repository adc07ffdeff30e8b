package redis

import (
	"context"
	"time"
)

// FixedWindowAllow counts one hit against scope and reports whether the count
// is still within limit. The window starts at the first hit. A counter left
// without a TTL (an earlier EXPIRE failed) gets one on the next hit, so a
// scope can never be locked out forever.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	store, err := c.conn()
	if err != nil {
		return false, 0, err
	}
	key := c.RateLimitKey(scope)

	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if window > 0 {
		if err := ensureExpiry(ctx, store, key, count, window); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}

func ensureExpiry(ctx context.Context, store cmdable, key string, count int64, window time.Duration) error {
	if count == 1 {
		return store.Expire(ctx, key, window).Err()
	}
	ttl, err := store.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	// -1 means the key exists without an expiry.
	if ttl == -1 {
		return store.Expire(ctx, key, window).Err()
	}
	return nil
}
