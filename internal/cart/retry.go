package cart

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

// ReplayPolicy bounds how often a conflicting operation is replayed.
type ReplayPolicy struct {
	MaxRetries uint64
	Backoff    time.Duration
}

const (
	minReplayBackoff = time.Millisecond
	maxReplayBackoff = 500 * time.Millisecond
)

// ReplayOnConflict runs fn and replays it from scratch while it fails with a
// CONFLICT typed error, up to MaxRetries additional attempts with jittered
// exponential backoff. Any other error, or the last conflict, is returned.
func ReplayOnConflict(ctx context.Context, policy ReplayPolicy, fn func(ctx context.Context) error) error {
	base := policy.Backoff
	if base < minReplayBackoff {
		base = minReplayBackoff
	}
	backoff := retry.NewExponential(base)
	backoff = retry.WithCappedDuration(maxReplayBackoff, backoff)
	backoff = retry.WithJitterPercent(25, backoff)
	backoff = retry.WithMaxRetries(policy.MaxRetries, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
