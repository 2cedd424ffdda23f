package scheduler

// BlockCounter reference-counts concurrent requests to suppress break
// admission. It is not safe for concurrent use on its own; the Scheduler
// serializes access to it.
type BlockCounter struct {
	count int
}

func NewBlockCounter() *BlockCounter {
	return &BlockCounter{}
}

// Block registers one more suppression request and returns the new count.
func (b *BlockCounter) Block() int {
	b.count++
	return b.count
}

// Unblock releases one suppression request. The count is clamped at zero so
// that mismatched pairs can never drive it negative.
func (b *BlockCounter) Unblock() int {
	if b.count > 0 {
		b.count--
	}
	return b.count
}

// ForceReset clears the count unconditionally. Escape hatch for recovering
// from unbalanced Block/Unblock pairs; not part of normal flow.
func (b *BlockCounter) ForceReset() {
	b.count = 0
}

func (b *BlockCounter) Count() int {
	return b.count
}

func (b *BlockCounter) IsBlocked() bool {
	return b.count > 0
}
