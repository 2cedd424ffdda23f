package scheduler

import "time"

// CooldownGuard enforces a minimum quiet period after a break closes. The
// platform's natural timer can report ready again before its own bookkeeping
// has reset after a close; this guard absorbs that race by refusing admission
// for a fixed window regardless of what the timer claims.
type CooldownGuard struct {
	window    time.Duration
	lastClose time.Time
}

func NewCooldownGuard(window time.Duration) *CooldownGuard {
	return &CooldownGuard{window: window}
}

// IsReady reports whether the quiet period has elapsed. Before any close has
// been recorded the cooldown is trivially satisfied.
func (g *CooldownGuard) IsReady(now time.Time) bool {
	if g.lastClose.IsZero() {
		return true
	}
	return now.Sub(g.lastClose) >= g.window
}

func (g *CooldownGuard) RecordClose(now time.Time) {
	g.lastClose = now
}

// LastClose returns the zero time when no close has been recorded yet.
func (g *CooldownGuard) LastClose() time.Time {
	return g.lastClose
}
