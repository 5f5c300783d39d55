package lock

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

var errHeld = errors.New("lock held")

type acquireFunc func(ctx context.Context) (string, bool, error)

// acquireWithRetry repeats attempt at a constant delay until it takes the
// lease, fails, or maxRetries extra attempts have been spent. Running out of
// attempts is not an error: it reports ok=false.
func acquireWithRetry(ctx context.Context, maxRetries int, delay time.Duration, attempt acquireFunc) (string, bool, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = time.Millisecond
	}

	var token string
	b := retry.WithMaxRetries(uint64(maxRetries), retry.NewConstant(delay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		t, ok, err := attempt(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(errHeld)
		}
		token = t
		return nil
	})
	switch {
	case errors.Is(err, errHeld):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return token, true, nil
}
