package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playsafe-labs/breakgate/pkg/logger"
)

type fakeController struct {
	enabled    bool
	setCalls   int
	lastSetArg bool
}

func (c *fakeController) IsEnabled() bool {
	return c.enabled
}

func (c *fakeController) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.setCalls++
	c.lastSetArg = enabled
}

type fakeNotifier struct {
	started []int
	ticks   []int
	ended   int
	cycleID string
}

func (n *fakeNotifier) CountdownStarted(ctx context.Context, cycleID string, remaining int) {
	n.cycleID = cycleID
	n.started = append(n.started, remaining)
}

func (n *fakeNotifier) CountdownTick(ctx context.Context, cycleID string, remaining int) {
	n.ticks = append(n.ticks, remaining)
}

func (n *fakeNotifier) CountdownEnded(ctx context.Context, cycleID string) {
	n.ended++
}

func TestCountdownCompletesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	ctrl := &fakeController{enabled: true}
	cd := NewCountdown(notifier, logger.InitializeTestZapLogger())

	completions := 0
	require.Equal(t, CountdownIdle, cd.State())

	cd.Start(ctx, 3, []Controller{ctrl}, func() { completions++ })
	assert.Equal(t, CountdownCounting, cd.State())
	assert.False(t, ctrl.enabled, "controller should be suspended")
	assert.Equal(t, []int{3}, notifier.started)

	cd.Tick(ctx) // 2
	cd.Tick(ctx) // 1
	assert.Equal(t, []int{2, 1}, notifier.ticks)
	assert.Equal(t, 0, completions)

	cd.Tick(ctx) // 0 -> completed
	assert.Equal(t, CountdownCompleted, cd.State())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 1, notifier.ended)

	// Controllers stay suspended through completion.
	assert.False(t, ctrl.enabled)

	// Further ticks are no-ops.
	cd.Tick(ctx)
	assert.Equal(t, 1, completions)
}

func TestCountdownCancelSuppressesCompletion(t *testing.T) {
	ctx := context.Background()
	ctrl := &fakeController{enabled: true}
	cd := NewCountdown(&fakeNotifier{}, logger.InitializeTestZapLogger())

	completions := 0
	cd.Start(ctx, 3, []Controller{ctrl}, func() { completions++ })
	cd.Tick(ctx) // remaining 2

	cd.Cancel(ctx)
	assert.Equal(t, CountdownCancelled, cd.State())
	assert.Equal(t, 0, completions)
	assert.True(t, ctrl.enabled, "cancel restores suspended controllers")

	// A cancelled countdown never completes, even if ticked again.
	cd.Tick(ctx)
	assert.Equal(t, 0, completions)
}

func TestCountdownRestorationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	enabled := &fakeController{enabled: true}
	disabled := &fakeController{enabled: false}
	cd := NewCountdown(&fakeNotifier{}, logger.InitializeTestZapLogger())

	cd.Start(ctx, 1, []Controller{enabled, disabled}, nil)
	require.False(t, enabled.enabled)

	// One SetEnabled(false) each during suspension.
	suspendCalls := enabled.setCalls

	cd.Tick(ctx) // completes, controllers still suspended

	cd.EnsureRestored(ctx)
	cd.EnsureRestored(ctx)
	cd.EnsureRestored(ctx)

	assert.True(t, enabled.enabled)
	assert.Equal(t, suspendCalls+1, enabled.setCalls, "restored exactly once")

	// Already-disabled controller is never re-enabled.
	assert.False(t, disabled.enabled)
	assert.Equal(t, 1, disabled.setCalls, "only the suspend write")
}

func TestCountdownSuspendsEachControllerOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := &fakeController{enabled: true}
	cd := NewCountdown(&fakeNotifier{}, logger.InitializeTestZapLogger())

	cd.Start(ctx, 2, []Controller{ctrl, ctrl}, nil)
	assert.Equal(t, 1, ctrl.setCalls)
}

func TestCountdownStartTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	cd := NewCountdown(&fakeNotifier{}, logger.InitializeTestZapLogger())

	cd.Start(ctx, 3, nil, nil)
	require.Equal(t, 3, cd.Remaining())

	cd.Start(ctx, 10, nil, nil)
	assert.Equal(t, 3, cd.Remaining())
}

func TestCountdownZeroDurationCompletesImmediately(t *testing.T) {
	ctx := context.Background()
	cd := NewCountdown(&fakeNotifier{}, logger.InitializeTestZapLogger())

	completions := 0
	cd.Start(ctx, 0, nil, func() { completions++ })

	assert.Equal(t, CountdownCompleted, cd.State())
	assert.Equal(t, 1, completions)
}

func TestCountdownCyclesHaveDistinctIDs(t *testing.T) {
	l := logger.InitializeTestZapLogger()
	a := NewCountdown(nil, l)
	b := NewCountdown(nil, l)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
