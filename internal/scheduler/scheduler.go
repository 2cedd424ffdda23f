package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/playsafe-labs/breakgate/config"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// Scheduler decides when a mandatory break may fire. A periodic tick drives
// both the admission poll and the countdown decrement; every entry point
// (tick, manual trigger, block requests, platform notifications) takes the
// same mutex, so the state machine is effectively single-threaded.
type Scheduler struct {
	platform PlatformAdapter
	notifier CountdownNotifier
	manual   *ManualTriggerPolicy
	cooldown *CooldownGuard
	blocks   *BlockCounter
	zones    *ZoneGate
	cfg      config.BreakConfig
	l        logger.Logger
	now      func() time.Time

	mu          sync.Mutex
	controllers []Controller
	active      *Countdown // current cycle: counting, or completed and awaiting open
	showing     *Countdown // cycle whose break is on screen; restored on close
	isWaiting   bool
	showPending bool // show requested, open notification not yet received
	isShowing   bool

	running   bool
	startedAt time.Time
	stopCh    chan struct{}
	ticker    *time.Ticker
	wg        sync.WaitGroup

	ticks          int64
	breaksShown    int64
	manualRequests int64
	rewardsGranted int64
}

func New(
	cfg config.BreakConfig,
	platform PlatformAdapter,
	notifier CountdownNotifier,
	store CounterStore,
	l logger.Logger,
) *Scheduler {
	return &Scheduler{
		platform: platform,
		notifier: notifier,
		manual:   NewManualTriggerPolicy(cfg.ManualFrequency, store, l),
		cooldown: NewCooldownGuard(cfg.CooldownWindow),
		blocks:   NewBlockCounter(),
		zones:    NewZoneGate(cfg.AllowedZones),
		cfg:      cfg,
		l:        l,
		now:      time.Now,
	}
}

// RegisterController adds an input controller to be suspended during
// countdowns. Call before Start.
func (s *Scheduler) RegisterController(ctrl Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllers = append(s.controllers, ctrl)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}

	if s.platform == nil {
		s.l.Warn(ctx, "no platform adapter configured, natural break triggers disabled")
	}

	// Best effort: a missing counter just restarts the manual cadence.
	if err := s.manual.LoadCounter(ctx); err != nil {
		s.l.Warnf(ctx, "manual trigger counter not restored: %v", err)
	}

	s.running = true
	s.startedAt = s.now()
	s.stopCh = make(chan struct{})
	s.ticker = time.NewTicker(s.cfg.TickInterval)

	s.wg.Add(1)
	go s.loop(ctx)

	s.l.Infof(ctx, "break scheduler started: tick=%s countdown=%s cooldown=%s",
		s.cfg.TickInterval, s.cfg.CountdownDuration, s.cfg.CooldownWindow)
	return nil
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerStopped
	}
	close(s.stopCh)
	s.ticker.Stop()
	s.mu.Unlock()

	// The loop needs the mutex to finish its current tick, so wait unlocked.
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.l.Warn(context.Background(), "break scheduler shutdown timeout exceeded")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Whatever happens to the process next, controllers must not stay
	// suspended.
	if s.active != nil {
		s.active.EnsureRestored(context.Background())
	}
	if s.showing != nil {
		s.showing.EnsureRestored(context.Background())
	}

	s.running = false
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-s.ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduler step: drive an in-progress countdown, or evaluate
// the admission gates and start a new one. Exported so tests can step the
// scheduler without the ticker.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++

	if s.active != nil && s.active.State() == CountdownCounting {
		s.active.Tick(ctx)
		return
	}

	// A cycle in flight (countdown completed, show requested, or break on
	// screen) suppresses admission until the platform reports back.
	if s.active != nil || s.showPending || s.isWaiting || s.isShowing {
		return
	}

	// Gate order: zone, block, cooldown, natural timer.
	if !s.zones.CurrentAllowed() {
		return
	}
	if s.blocks.IsBlocked() {
		return
	}
	if !s.cooldown.IsReady(s.now()) {
		return
	}
	if s.platform == nil || !s.platform.IsNaturalTimerReady() {
		return
	}

	s.startCountdownLocked(ctx)
}

func (s *Scheduler) startCountdownLocked(ctx context.Context) {
	cd := NewCountdown(s.notifier, s.l)
	s.active = cd
	s.isWaiting = true

	seconds := int(s.cfg.CountdownDuration / time.Second)
	cd.Start(ctx, seconds, s.controllers, func() {
		s.showBreakLocked(ctx)
	})
}

// showBreakLocked asks the platform to display the break. isShowing flips
// only on the platform's opened notification; assuming success here would
// leave the scheduler wedged if the request is dropped.
func (s *Scheduler) showBreakLocked(ctx context.Context) {
	if s.isShowing {
		return
	}

	s.isWaiting = false

	if s.platform == nil {
		s.l.Warn(ctx, "no platform adapter, dropping break show request")
		s.abortCycleLocked(ctx)
		return
	}

	if err := s.platform.Show(ctx); err != nil {
		s.l.Errorf(ctx, "scheduler.showBreak: %v", err)
		s.abortCycleLocked(ctx)
		return
	}

	s.showPending = true
}

func (s *Scheduler) abortCycleLocked(ctx context.Context) {
	if s.active != nil {
		s.active.EnsureRestored(ctx)
		s.active = nil
	}
}

// RequestManualTrigger evaluates the frequency policy for an explicitly
// requested break. The natural timer is forced ready so it cannot veto an
// admitted request. Returns false when the policy denies this request.
func (s *Scheduler) RequestManualTrigger(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manualRequests++

	// A show request already in flight counts as showing: admitting another
	// break here would overlap the one on its way.
	if s.isShowing || s.showPending {
		return false, ErrBreakShowing
	}

	// Blocks gate manual triggers too, without consuming a policy increment.
	if s.blocks.IsBlocked() {
		s.l.Debugf(ctx, "manual trigger denied, %d blocks outstanding", s.blocks.Count())
		return false, nil
	}

	if !s.manual.ShouldAdmit(ctx) {
		s.l.Debugf(ctx, "manual trigger denied, counter=%d", s.manual.Counter())
		return false, nil
	}

	if s.platform != nil {
		s.platform.ForceReady()
	}

	if s.cfg.ManualUsesCountdown {
		if s.active == nil {
			s.startCountdownLocked(ctx)
		}
		return true, nil
	}

	// Bypass policy: the manual break preempts a pending natural countdown.
	// With showPending rejected above, an active cycle here is still counting.
	if s.active != nil {
		s.active.Cancel(ctx)
		s.active = nil
		s.isWaiting = false
	}
	s.showBreakLocked(ctx)
	return true, nil
}

// WouldManualTriggerFire previews the next manual trigger without consuming it.
func (s *Scheduler) WouldManualTriggerFire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual.Peek()
}

// Block suppresses admission and cancels any countdown in progress: a
// blocking UI wins over a pending break.
func (s *Scheduler) Block(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.blocks.Block()

	if s.active != nil && s.active.State() == CountdownCounting {
		s.active.Cancel(ctx)
		s.active = nil
		s.isWaiting = false
	}

	s.l.Debugf(ctx, "break admission blocked, count=%d", count)
}

func (s *Scheduler) Unblock(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.blocks.Unblock()
	s.l.Debugf(ctx, "break admission unblocked, count=%d", count)
}

// ForceResetBlocks clears the block count unconditionally. Last resort for
// recovering from unbalanced Block/Unblock pairs.
func (s *Scheduler) ForceResetBlocks(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks.ForceReset()
	s.l.Warn(ctx, "block counter force-reset")
}

func (s *Scheduler) IsAdmissionBlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks.IsBlocked()
}

// OnOpened handles the platform's break-opened notification. Duplicates past
// the first are no-ops.
func (s *Scheduler) OnOpened(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isShowing {
		return
	}

	s.isShowing = true
	s.isWaiting = false
	s.showPending = false
	s.breaksShown++

	if s.active != nil {
		// A break opened through another path while our countdown was still
		// running; hide the lingering warning and give input back.
		if s.active.State() == CountdownCounting {
			s.active.Cancel(ctx)
		}
		s.showing = s.active
		s.active = nil
	}

	s.l.Info(ctx, "break opened")
}

// OnClosed handles the platform's break-closed notification: records the
// cooldown, guarantees controller restoration for the cycle that was showing,
// and lets natural polling resume. Restoration is keyed to that cycle, so a
// newer countdown's freshly suspended controllers are left alone.
func (s *Scheduler) OnClosed(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isShowing {
		return
	}

	s.isShowing = false
	s.showPending = false
	s.cooldown.RecordClose(s.now())

	if s.showing != nil {
		s.showing.EnsureRestored(ctx)
		s.showing = nil
	}

	s.l.Info(ctx, "break closed")
}

func (s *Scheduler) OnRewardGranted(ctx context.Context, rewardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rewardsGranted++
	s.l.Infof(ctx, "break reward granted: reward_id=%s", rewardID)
}

// OnZoneChanged updates the zone gate. Entering a disallowed zone cancels any
// active countdown; returning to an allowed one resets the natural timer to
// its full interval so the player gets a fresh interval instead of an
// immediate re-trigger.
func (s *Scheduler) OnZoneChanged(ctx context.Context, zone ZoneID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevAllowed := s.zones.CurrentAllowed()
	s.zones.Set(zone)
	nowAllowed := s.zones.CurrentAllowed()

	if !nowAllowed {
		if s.active != nil && s.active.State() == CountdownCounting {
			s.active.Cancel(ctx)
			s.active = nil
			s.isWaiting = false
		}
		s.l.Debugf(ctx, "zone %s disallows breaks", zone)
		return
	}

	if !prevAllowed {
		if s.platform != nil {
			s.platform.ResetToFullInterval()
		}
		s.l.Debugf(ctx, "returned to allowed zone %s, natural timer reset", zone)
	}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		IsRunning:      s.running,
		StartedAt:      s.startedAt,
		CurrentZone:    string(s.zones.Current()),
		ZoneAllowed:    s.zones.CurrentAllowed(),
		IsWaiting:      s.isWaiting,
		IsBreakShowing: s.isShowing,
		BlockCount:     s.blocks.Count(),
		ManualCounter:  s.manual.Counter(),
		Ticks:          s.ticks,
		BreaksShown:    s.breaksShown,
		ManualRequests: s.manualRequests,
		RewardsGranted: s.rewardsGranted,
	}

	if lastClose := s.cooldown.LastClose(); !lastClose.IsZero() {
		st.LastBreakCloseAt = &lastClose
	}
	if s.platform != nil {
		st.SecondsUntilNatural = s.platform.SecondsUntilNaturalTimer()
	}

	return st
}
