package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSleeper records requested delays and returns immediately.
type fakeSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	return nil
}

func TestRefreshSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	r := New(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}, Options{Sleeper: &fakeSleeper{}})

	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)

	data, ok := r.Data()
	assert.True(t, ok)
	assert.Equal(t, 42, data)
	assert.NoError(t, r.Err())
	assert.False(t, r.InFlight())
}

func TestRefreshExhaustsAttempts(t *testing.T) {
	sleeper := &fakeSleeper{}
	boom := errors.New("connection refused")
	calls := 0
	r := New(func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	}, Options{MaxRetries: 3, RetryDelay: 2 * time.Second, Sleeper: sleeper})

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, boom)

	// maxRetries=3 means exactly 4 attempts with 3 delays between them.
	assert.Equal(t, 4, calls)
	assert.Len(t, sleeper.delays, 3)
	for _, d := range sleeper.delays {
		assert.Equal(t, 2*time.Second, d)
	}
	assert.ErrorIs(t, r.Err(), boom)

	_, ok := r.Data()
	assert.False(t, ok)
}

func TestRefreshRecoversOnRetry(t *testing.T) {
	calls := 0
	r := New(func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("timeout")
		}
		return "teams", nil
	}, Options{Sleeper: &fakeSleeper{}})

	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "teams", got)
	assert.Equal(t, 3, calls)
	assert.NoError(t, r.Err())
}

func TestRefetchSupersedesInFlightRefresh(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	r := New(func(ctx context.Context) (int, error) {
		select {
		case <-release:
			// Manual refetch path: fast.
			return 2, nil
		default:
		}
		once.Do(func() { close(started) })
		<-release
		return 1, nil
	}, Options{Sleeper: &fakeSleeper{}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Refresh(context.Background())
	}()
	<-started

	// Manual refetch bumps the generation before the automatic refresh
	// completes, so the stale result must not overwrite its outcome.
	close(release)
	got, err := r.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	<-done
	data, ok := r.Data()
	assert.True(t, ok)
	assert.Equal(t, 2, data)
}

func TestSleepCancelledMidRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(func(ctx context.Context) (int, error) {
		return 0, errors.New("unreachable host")
	}, Options{MaxRetries: 3})

	_, err := r.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaults(t *testing.T) {
	r := New(func(ctx context.Context) (int, error) { return 0, nil }, Options{})
	assert.Equal(t, DefaultMaxRetries, r.maxRetries)
	assert.Equal(t, DefaultRetryDelay, r.retryDelay)
}
