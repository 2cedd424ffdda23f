package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneGateAllowList(t *testing.T) {
	g := NewZoneGate([]string{"lobby", "overworld"})

	g.Set("lobby")
	assert.True(t, g.CurrentAllowed())

	g.Set("dungeon")
	assert.False(t, g.CurrentAllowed())
	assert.Equal(t, ZoneID("dungeon"), g.Current())
}

func TestZoneGateEmptyAllowListPermitsAll(t *testing.T) {
	g := NewZoneGate(nil)

	g.Set("anywhere")
	assert.True(t, g.CurrentAllowed())
}
