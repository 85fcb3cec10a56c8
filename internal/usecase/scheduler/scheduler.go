// Package scheduler owns the recurring timers that drive AutoShop sessions.
// There is at most one timer per user key.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/metrics"
)

var ErrShutdownTimeout = errs.New("scheduler shutdown timed out")

// TickFunc runs one tick for the handle's user. It must check h.Cancelled
// once it holds the user's lock.
type TickFunc func(ctx context.Context, h *Handle)

type Handle struct {
	key       identity.UserKey
	interval  time.Duration
	stop      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

func (h *Handle) UserKey() identity.UserKey { return h.key }
func (h *Handle) Interval() time.Duration   { return h.interval }
func (h *Handle) Cancelled() bool           { return h.cancelled.Load() }

func (h *Handle) cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		close(h.stop)
	})
}

type Scheduler struct {
	mu      sync.Mutex
	handles map[string]*Handle
	closed  bool

	wg         sync.WaitGroup
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		handles:    make(map[string]*Handle),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

// Arm starts a timer firing fn every interval, replacing any timer the key
// already had. It returns nil after Shutdown.
func (s *Scheduler) Arm(key identity.UserKey, interval time.Duration, fn TickFunc) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		slog.Warn("scheduler closed, not arming timer", "user_key", key.String())
		return nil
	}

	if prev, ok := s.handles[key.String()]; ok {
		prev.cancel()
	}

	h := &Handle{
		key:      key,
		interval: interval,
		stop:     make(chan struct{}),
	}
	s.handles[key.String()] = h
	metrics.SetActiveTimers(len(s.handles))

	s.wg.Add(1)
	go s.loop(h, fn)

	slog.Debug("timer armed", "user_key", key.String(), "interval", interval)
	return h
}

func (s *Scheduler) loop(h *Handle, fn TickFunc) {
	defer s.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
			if h.Cancelled() {
				return
			}
			fn(s.baseCtx, h)
		}
	}
}

// Cancel stops the key's timer. A tick already running finishes, but sees
// its handle as cancelled from now on.
func (s *Scheduler) Cancel(key identity.UserKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[key.String()]
	if !ok {
		return false
	}
	h.cancel()
	delete(s.handles, key.String())
	metrics.SetActiveTimers(len(s.handles))
	return true
}

// IsCurrent reports whether h is the live timer for its key.
func (s *Scheduler) IsCurrent(h *Handle) bool {
	if h == nil || h.Cancelled() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[h.key.String()] == h
}

func (s *Scheduler) Armed(key identity.UserKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.handles[key.String()]
	return ok
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Shutdown cancels every timer and waits for running ticks to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for k, h := range s.handles {
		h.cancel()
		delete(s.handles, k)
	}
	metrics.SetActiveTimers(0)
	s.mu.Unlock()

	s.cancelBase()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errs.Mark(ctx.Err(), ErrShutdownTimeout)
	}
}
