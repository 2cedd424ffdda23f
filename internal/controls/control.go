package controls

import (
	"context"
	"sync"

	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// Control is an in-process input controller toggle. It implements the
// suspension contract the countdown drives: IsEnabled and SetEnabled.
type Control struct {
	name string
	l    logger.Logger

	mu      sync.Mutex
	enabled bool
}

func New(name string, l logger.Logger) *Control {
	return &Control{
		name:    name,
		l:       l,
		enabled: true,
	}
}

func (c *Control) Name() string {
	return c.name
}

func (c *Control) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *Control) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled == enabled {
		return
	}

	c.enabled = enabled
	c.l.Debugf(context.Background(), "controller %q enabled=%v", c.name, enabled)
}
