package scheduler

import (
	"context"
	"time"
)

// PlatformAdapter is the boundary to the external service that owns the
// natural break timer and actually displays the break. Show is fire-and-
// forget: the open/close outcomes arrive later as notifications. ForceReady
// and ResetToFullInterval are the privileged timer adjustments used by the
// manual-trigger and zone-return paths.
type PlatformAdapter interface {
	IsNaturalTimerReady() bool
	SecondsUntilNaturalTimer() float64
	Show(ctx context.Context) error
	ForceReady()
	ResetToFullInterval()
}

// Status is a diagnostic snapshot of the scheduler.
type Status struct {
	IsRunning           bool       `json:"is_running"`
	StartedAt           time.Time  `json:"started_at,omitempty"`
	CurrentZone         string     `json:"current_zone"`
	ZoneAllowed         bool       `json:"zone_allowed"`
	IsWaiting           bool       `json:"is_waiting"`
	IsBreakShowing      bool       `json:"is_break_showing"`
	BlockCount          int        `json:"block_count"`
	LastBreakCloseAt    *time.Time `json:"last_break_close_at,omitempty"`
	ManualCounter       int64      `json:"manual_counter"`
	SecondsUntilNatural float64    `json:"seconds_until_natural"`
	Ticks               int64      `json:"ticks"`
	BreaksShown         int64      `json:"breaks_shown"`
	ManualRequests      int64      `json:"manual_requests"`
	RewardsGranted      int64      `json:"rewards_granted"`
}
