package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultDelay is the pause before the second attempt.
const DefaultDelay = 25 * time.Millisecond

// Once runs op and, if it fails with an error matching retryable, runs it one more time.
// Any other error is returned immediately.
func Once[T any](ctx context.Context, retryable error, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if err != nil && !errors.Is(err, retryable) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithMaxTries(2),
		backoff.WithBackOff(backoff.NewConstantBackOff(DefaultDelay)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.WarnContext(ctx, "Retrying after conflict", "error", err, "delay", next)
		}),
	)
}
