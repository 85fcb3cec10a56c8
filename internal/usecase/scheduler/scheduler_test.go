//go:build unit

package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/usecase/scheduler"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const interval = 5 * time.Millisecond

func shutdown(t *testing.T, s *scheduler.Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}

func TestScheduler_Arm(t *testing.T) {
	s := scheduler.New()
	defer shutdown(t, s)

	key := identity.Authenticated(uuid.New())
	var ticks atomic.Int32
	h := s.Arm(key, interval, func(_ context.Context, h *scheduler.Handle) {
		ticks.Add(1)
	})
	require.NotNil(t, h)

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, interval)
	assert.True(t, s.IsCurrent(h))
	assert.True(t, s.Armed(key))
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_Cancel(t *testing.T) {
	s := scheduler.New()
	defer shutdown(t, s)

	key := identity.Authenticated(uuid.New())
	var ticks atomic.Int32
	h := s.Arm(key, interval, func(context.Context, *scheduler.Handle) {
		ticks.Add(1)
	})
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, interval)

	assert.True(t, s.Cancel(key))
	assert.False(t, s.Cancel(key), "second cancel is a no-op")
	assert.True(t, h.Cancelled())
	assert.False(t, s.IsCurrent(h))

	// let an in-flight tick drain, then make sure nothing else fires
	time.Sleep(4 * interval)
	seen := ticks.Load()
	time.Sleep(4 * interval)
	assert.Equal(t, seen, ticks.Load())
}

func TestScheduler_RearmReplacesHandle(t *testing.T) {
	s := scheduler.New()
	defer shutdown(t, s)

	key := identity.Authenticated(uuid.New())
	noop := func(context.Context, *scheduler.Handle) {}
	first := s.Arm(key, time.Hour, noop)
	second := s.Arm(key, time.Hour, noop)

	assert.True(t, first.Cancelled())
	assert.False(t, s.IsCurrent(first))
	assert.True(t, s.IsCurrent(second))
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_Shutdown(t *testing.T) {
	s := scheduler.New()

	started := make(chan struct{})
	var once atomic.Bool
	for range 3 {
		s.Arm(identity.Authenticated(uuid.New()), interval, func(ctx context.Context, _ *scheduler.Handle) {
			if once.CompareAndSwap(false, true) {
				close(started)
			}
			<-ctx.Done()
		})
	}
	<-started

	shutdown(t, s)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Arm(identity.Authenticated(uuid.New()), interval, func(context.Context, *scheduler.Handle) {}))
}
