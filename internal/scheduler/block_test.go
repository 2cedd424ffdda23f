package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockCounterBalancedSequences(t *testing.T) {
	b := NewBlockCounter()

	b.Block()
	b.Block()
	b.Unblock()
	b.Block()
	b.Unblock()
	b.Unblock()

	assert.Equal(t, 0, b.Count())
	assert.False(t, b.IsBlocked())
}

func TestBlockCounterNeverNegative(t *testing.T) {
	b := NewBlockCounter()

	b.Unblock()
	b.Unblock()
	assert.Equal(t, 0, b.Count())

	b.Block()
	b.Unblock()
	b.Unblock()
	assert.Equal(t, 0, b.Count())
}

func TestBlockCounterPrefixesStayNonNegative(t *testing.T) {
	b := NewBlockCounter()

	// Every prefix of an arbitrary interleaving keeps the count >= 0.
	ops := []bool{true, false, false, true, true, false, false, true, false}
	for _, block := range ops {
		if block {
			b.Block()
		} else {
			b.Unblock()
		}
		assert.GreaterOrEqual(t, b.Count(), 0)
	}
}

func TestBlockCounterForceReset(t *testing.T) {
	b := NewBlockCounter()

	b.Block()
	b.Block()
	b.Block()
	assert.Equal(t, 3, b.Count())

	b.ForceReset()
	assert.Equal(t, 0, b.Count())
	assert.False(t, b.IsBlocked())
}
