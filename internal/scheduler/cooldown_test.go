package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownReadyBeforeAnyClose(t *testing.T) {
	g := NewCooldownGuard(5 * time.Second)

	assert.True(t, g.IsReady(time.Now()))
	assert.True(t, g.LastClose().IsZero())
}

func TestCooldownWindowEnforced(t *testing.T) {
	g := NewCooldownGuard(5 * time.Second)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g.RecordClose(t0)

	assert.False(t, g.IsReady(t0))
	assert.False(t, g.IsReady(t0.Add(1*time.Second)))
	assert.False(t, g.IsReady(t0.Add(5*time.Second-time.Millisecond)))
	assert.True(t, g.IsReady(t0.Add(5*time.Second)))
	assert.True(t, g.IsReady(t0.Add(time.Minute)))
}

func TestCooldownLatestCloseWins(t *testing.T) {
	g := NewCooldownGuard(5 * time.Second)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g.RecordClose(t0)
	g.RecordClose(t0.Add(10 * time.Second))

	assert.False(t, g.IsReady(t0.Add(12*time.Second)))
	assert.True(t, g.IsReady(t0.Add(15*time.Second)))
}
