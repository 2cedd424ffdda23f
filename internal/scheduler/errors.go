package scheduler

import "errors"

var (
	ErrBreakShowing     = errors.New("a break is already showing")
	ErrSchedulerRunning = errors.New("break scheduler is already running")
	ErrSchedulerStopped = errors.New("break scheduler is not running")
)
