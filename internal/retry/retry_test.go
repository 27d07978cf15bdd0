package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var errBoom = errors.New("boom")

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	n, err := Do(context.Background(), Policy{MaxRetries: 3}, func(context.Context, int) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
}

func TestDo_Exhausted(t *testing.T) {
	var retried []int
	calls := 0
	n, err := Do(context.Background(), Policy{
		MaxRetries: 3,
		OnRetry:    func(attempt int, _ error) { retried = append(retried, attempt) },
	}, func(context.Context, int) error {
		calls++
		return errBoom
	})

	require.Error(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errBoom)
	assert.EqualError(t, err, "failed after 4 attempts: boom")
	assert.Equal(t, []int{1, 2, 3}, retried)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
}

func TestDo_AttemptNumbers(t *testing.T) {
	var seen []int
	_, err := Do(context.Background(), Policy{MaxRetries: 2}, func(_ context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 3 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestDo_NonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	n, err := Do(context.Background(), Policy{
		MaxRetries: 5,
		Retryable:  func(err error) bool { return !errors.Is(err, fatal) },
	}, func(context.Context, int) error {
		calls++
		return fatal
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestDo_NegativeRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{MaxRetries: -2}, func(context.Context, int) error {
		calls++
		return errBoom
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_FixedDelay(t *testing.T) {
	start := time.Now()
	_, err := Do(context.Background(), Policy{MaxRetries: 2, Delay: 20 * time.Millisecond}, func(context.Context, int) error {
		return errBoom
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// Two pauses, none after the last attempt.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestDo_CancelDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	n, err := Do(ctx, Policy{MaxRetries: 3, Delay: time.Minute}, func(context.Context, int) error {
		calls++
		cancel()
		return errBoom
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
}

func TestDo_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	n, err := Do(ctx, Policy{MaxRetries: 3}, func(context.Context, int) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, calls)
}

func TestDo_CallCountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxRetries := rapid.IntRange(0, 6).Draw(t, "maxRetries")
		succeedAt := rapid.IntRange(1, 10).Draw(t, "succeedAt")

		calls := 0
		n, err := Do(context.Background(), Policy{MaxRetries: maxRetries}, func(_ context.Context, attempt int) error {
			calls++
			if attempt == succeedAt {
				return nil
			}
			return errBoom
		})

		if succeedAt <= maxRetries+1 {
			if err != nil || calls != succeedAt || n != succeedAt {
				t.Fatalf("succeedAt=%d maxRetries=%d: calls=%d n=%d err=%v", succeedAt, maxRetries, calls, n, err)
			}
			return
		}
		if !errors.Is(err, ErrExhausted) || calls != maxRetries+1 {
			t.Fatalf("maxRetries=%d: calls=%d err=%v", maxRetries, calls, err)
		}
	})
}
