package platform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playsafe-labs/breakgate/pkg/logger"
)

var ErrNoPublisher = errors.New("no show publisher configured")

// ShowPublisher delivers a break show request to the platform service.
type ShowPublisher interface {
	PublishBreakShow(ctx context.Context) error
}

// Adapter translates the external platform's timer and display signals into
// the scheduler's vocabulary. The natural timer is a plain deadline: ready
// once now passes it, forced ready by moving the deadline to now, reset by
// moving it a full interval out. No introspection of the platform's
// internals anywhere.
type Adapter struct {
	mu       sync.Mutex
	interval time.Duration
	deadline time.Time
	now      func() time.Time
	pub      ShowPublisher
	l        logger.Logger
}

func NewAdapter(interval time.Duration, pub ShowPublisher, l logger.Logger) *Adapter {
	a := &Adapter{
		interval: interval,
		now:      time.Now,
		pub:      pub,
		l:        l,
	}
	a.deadline = a.now().Add(interval)
	return a
}

func (a *Adapter) IsNaturalTimerReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.now().Before(a.deadline)
}

// SecondsUntilNaturalTimer is diagnostic only; zero once the timer is ready.
func (a *Adapter) SecondsUntilNaturalTimer() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	remaining := a.deadline.Sub(a.now()).Seconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ForceReady makes the natural timer report ready immediately. Used by the
// manual-trigger path only.
func (a *Adapter) ForceReady() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deadline = a.now()
}

// ResetToFullInterval pushes the next natural trigger a full interval out.
// Used by the zone-return path only.
func (a *Adapter) ResetToFullInterval() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deadline = a.now().Add(a.interval)
}

// MarkClosed restarts the interval after a break closes, mirroring the
// platform's own timer bookkeeping.
func (a *Adapter) MarkClosed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deadline = a.now().Add(a.interval)
}

// Show requests the break display. Fire-and-forget: the opened/closed
// outcomes come back later as notifications. Failing here lets the scheduler
// abort the cycle instead of waiting for an open that will never arrive.
func (a *Adapter) Show(ctx context.Context) error {
	if a.pub == nil {
		a.l.Warn(ctx, "no show publisher configured, dropping break show request")
		return ErrNoPublisher
	}
	return a.pub.PublishBreakShow(ctx)
}
