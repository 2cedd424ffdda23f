package scheduler

import (
	"context"

	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// CounterStore persists the manual-trigger counter across sessions.
type CounterStore interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, value int64) error
}

// ManualTriggerPolicy gates explicitly requested breaks by frequency: every
// Nth request is admitted. A frequency of 1 admits every request; zero or
// negative disables manual triggers entirely.
type ManualTriggerPolicy struct {
	frequency int
	counter   int64
	store     CounterStore
	l         logger.Logger
}

func NewManualTriggerPolicy(frequency int, store CounterStore, l logger.Logger) *ManualTriggerPolicy {
	return &ManualTriggerPolicy{
		frequency: frequency,
		store:     store,
		l:         l,
	}
}

// LoadCounter restores the persisted counter. Without a store the policy
// starts from zero and stays in-memory.
func (p *ManualTriggerPolicy) LoadCounter(ctx context.Context) error {
	if p.store == nil {
		p.l.Warn(ctx, "no counter store configured, manual trigger counter will not persist")
		return nil
	}

	value, err := p.store.Load(ctx)
	if err != nil {
		p.l.Errorf(ctx, "scheduler.ManualTriggerPolicy.LoadCounter: %v", err)
		return err
	}

	p.counter = value
	return nil
}

// ShouldAdmit increments the counter, persists it, and reports whether this
// request is admitted. A disabled policy (frequency <= 0) denies without
// touching the counter.
func (p *ManualTriggerPolicy) ShouldAdmit(ctx context.Context) bool {
	if p.frequency <= 0 {
		return false
	}

	p.counter++
	if p.store != nil {
		if err := p.store.Save(ctx, p.counter); err != nil {
			// Persistence failure only costs counter continuity, not admission.
			p.l.Errorf(ctx, "scheduler.ManualTriggerPolicy.ShouldAdmit: %v", err)
		}
	}

	if p.frequency == 1 {
		return true
	}
	return p.counter%int64(p.frequency) == 0
}

// Peek reports whether the next ShouldAdmit call would admit, without
// mutating anything.
func (p *ManualTriggerPolicy) Peek() bool {
	if p.frequency <= 0 {
		return false
	}
	if p.frequency == 1 {
		return true
	}
	return (p.counter+1)%int64(p.frequency) == 0
}

func (p *ManualTriggerPolicy) Counter() int64 {
	return p.counter
}
