// Package retryx retries idempotent operations with a fixed delay.
package retryx

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy controls how often and how far apart attempts are made.
type Policy struct {
	// Attempts is the total number of tries, including the first. Values
	// below 1 mean a single try.
	Attempts int
	// Delay between attempts.
	Delay time.Duration
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs fn until it succeeds, returns a permanent error, the attempts run
// out or ctx is done. The last error is returned unwrapped.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	retries := max(p.Attempts-1, 0)

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(retries)), // #nosec G115 - non-negative
		ctx,
	)

	v, err := backoff.RetryWithData(func() (T, error) {
		return fn(ctx)
	}, b)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return v, perm.Err
		}
		return v, err
	}
	return v, nil
}
