package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// Controller is the suspension contract exposed by input controllers. The
// countdown only ever reads and writes through these two methods.
type Controller interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// CountdownNotifier receives countdown lifecycle notifications for an
// external warning display. Calls are fire-and-forget.
type CountdownNotifier interface {
	CountdownStarted(ctx context.Context, cycleID string, remainingSeconds int)
	CountdownTick(ctx context.Context, cycleID string, remainingSeconds int)
	CountdownEnded(ctx context.Context, cycleID string)
}

type CountdownState string

const (
	CountdownIdle      CountdownState = "idle"
	CountdownCounting  CountdownState = "counting"
	CountdownCompleted CountdownState = "completed"
	CountdownCancelled CountdownState = "cancelled"
)

type suspendedController struct {
	ctrl       Controller
	wasEnabled bool
	restored   bool
}

// Countdown is the pre-break warning state machine for a single cycle. It
// suspends registered controllers when started and guarantees each one is
// restored at most once, keyed to this instance rather than global state.
type Countdown struct {
	id         string
	state      CountdownState
	remaining  int
	onComplete func()
	completed  bool
	suspended  []suspendedController
	notifier   CountdownNotifier
	l          logger.Logger
}

func NewCountdown(notifier CountdownNotifier, l logger.Logger) *Countdown {
	return &Countdown{
		id:       uuid.New().String(),
		state:    CountdownIdle,
		notifier: notifier,
		l:        l,
	}
}

func (c *Countdown) ID() string {
	return c.id
}

func (c *Countdown) State() CountdownState {
	return c.state
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

// Start suspends the given controllers, capturing each one's prior enabled
// state, and begins counting down from seconds. onComplete fires exactly once
// when the countdown reaches zero; it never fires after Cancel.
func (c *Countdown) Start(ctx context.Context, seconds int, controllers []Controller, onComplete func()) {
	if c.state != CountdownIdle {
		c.l.Warnf(ctx, "countdown %s started twice, state=%s", c.id, c.state)
		return
	}

	c.remaining = seconds
	c.onComplete = onComplete
	c.state = CountdownCounting

	for _, ctrl := range controllers {
		if ctrl == nil || c.isSuspended(ctrl) {
			continue
		}
		c.suspended = append(c.suspended, suspendedController{
			ctrl:       ctrl,
			wasEnabled: ctrl.IsEnabled(),
		})
		ctrl.SetEnabled(false)
	}

	c.l.Infof(ctx, "countdown %s started, %ds, %d controllers suspended",
		c.id, seconds, len(c.suspended))

	if c.notifier != nil {
		c.notifier.CountdownStarted(ctx, c.id, c.remaining)
	}

	if c.remaining <= 0 {
		c.complete(ctx)
	}
}

// Tick decrements the remaining time by one second. Reaching zero completes
// the countdown: controllers stay suspended (the break itself needs them
// suspended too) and onComplete fires.
func (c *Countdown) Tick(ctx context.Context) {
	if c.state != CountdownCounting {
		return
	}

	c.remaining--
	if c.remaining > 0 {
		if c.notifier != nil {
			c.notifier.CountdownTick(ctx, c.id, c.remaining)
		}
		return
	}

	c.complete(ctx)
}

func (c *Countdown) complete(ctx context.Context) {
	c.state = CountdownCompleted
	if c.notifier != nil {
		c.notifier.CountdownEnded(ctx, c.id)
	}

	if !c.completed && c.onComplete != nil {
		c.completed = true
		c.onComplete()
	}
}

// Cancel aborts a counting countdown, restores controllers immediately and
// suppresses the completion callback.
func (c *Countdown) Cancel(ctx context.Context) {
	if c.state != CountdownCounting {
		return
	}

	c.state = CountdownCancelled
	c.EnsureRestored(ctx)

	if c.notifier != nil {
		c.notifier.CountdownEnded(ctx, c.id)
	}

	c.l.Infof(ctx, "countdown %s cancelled with %ds remaining", c.id, c.remaining)
}

// EnsureRestored re-enables every controller this cycle suspended that was
// enabled beforehand. Idempotent: it is reached from Cancel, from an explicit
// hide, and from the platform's close notification, and each controller is
// restored at most once per cycle. A controller that was already disabled
// before suspension stays disabled.
func (c *Countdown) EnsureRestored(ctx context.Context) {
	for i := range c.suspended {
		sc := &c.suspended[i]
		if sc.restored {
			continue
		}
		sc.restored = true
		if sc.wasEnabled {
			sc.ctrl.SetEnabled(true)
		}
	}
}

func (c *Countdown) isSuspended(ctrl Controller) bool {
	for _, sc := range c.suspended {
		if sc.ctrl == ctrl {
			return true
		}
	}
	return false
}
