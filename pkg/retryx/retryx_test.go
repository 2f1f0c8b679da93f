package retryx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/pkg/retryx"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := retryx.Do(context.Background(), retryx.Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsAfterAttempts(t *testing.T) {
	calls := 0
	err := retryx.Do(context.Background(), retryx.Policy{Attempts: 2, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return errFlaky
	})
	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 2, calls)
}

func TestDoSingleAttemptWhenUnset(t *testing.T) {
	calls := 0
	err := retryx.Do(context.Background(), retryx.Policy{}, func(context.Context) error {
		calls++
		return errFlaky
	})
	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 1, calls)
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := retryx.Do(context.Background(), retryx.Policy{Attempts: 5, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return retryx.Permanent(errFlaky)
	})
	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 1, calls)
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := retryx.DoValue(context.Background(), retryx.Policy{Attempts: 3, Delay: time.Millisecond},
		func(context.Context) ([]string, error) {
			calls++
			if calls == 1 {
				return nil, errFlaky
			}
			return []string{"a"}, nil
		})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, v)
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryx.Do(ctx, retryx.Policy{Attempts: 10, Delay: time.Hour}, func(context.Context) error {
		calls++
		return errFlaky
	})
	require.Error(t, err)
	require.LessOrEqual(t, calls, 1)
}
