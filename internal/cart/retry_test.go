package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

func TestReplayOnConflictRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := ReplayOnConflict(context.Background(), ReplayPolicy{MaxRetries: 3, Backoff: time.Millisecond}, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return pkgerrors.New(pkgerrors.CodeConflict, "stale")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestReplayOnConflictGivesUpWithConflict(t *testing.T) {
	attempts := 0
	err := ReplayOnConflict(context.Background(), ReplayPolicy{MaxRetries: 2}, func(context.Context) error {
		attempts++
		return pkgerrors.New(pkgerrors.CodeConflict, "stale")
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, 3, attempts, "one attempt plus two replays")
}

func TestReplayOnConflictDoesNotRetryOtherErrors(t *testing.T) {
	attempts := 0
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "missing")
	err := ReplayOnConflict(context.Background(), ReplayPolicy{MaxRetries: 5}, func(context.Context) error {
		attempts++
		return notFound
	})
	assert.Same(t, notFound, pkgerrors.As(err))
	assert.Equal(t, 1, attempts)

	plain := errors.New("boom")
	err = ReplayOnConflict(context.Background(), ReplayPolicy{MaxRetries: 5}, func(context.Context) error {
		return plain
	})
	assert.ErrorIs(t, err, plain)
}
