// Package refresh collapses bursts of palette refresh requests into one pass
// per tick.
package refresh

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is roughly one display frame.
const DefaultInterval = 16 * time.Millisecond

// Flags are idempotent work items. Requesting a flag twice before the next
// pass is the same as requesting it once.
type Flags struct {
	Regenerate       bool
	UpdateIndicators bool
}

// Any reports whether any work is pending.
func (f Flags) Any() bool {
	return f.Regenerate || f.UpdateIndicators
}

// Merge returns the union of two flag sets.
func (f Flags) Merge(o Flags) Flags {
	return Flags{
		Regenerate:       f.Regenerate || o.Regenerate,
		UpdateIndicators: f.UpdateIndicators || o.UpdateIndicators,
	}
}

// Coalescer accumulates requests until the next Take.
type Coalescer struct {
	mu      sync.Mutex
	pending Flags
	passes  int
}

// New returns an idle coalescer.
func New() *Coalescer {
	return &Coalescer{}
}

// Request schedules work for the next pass.
func (c *Coalescer) Request(f Flags) {
	c.mu.Lock()
	c.pending = c.pending.Merge(f)
	c.mu.Unlock()
}

// Pending returns the flags accumulated so far without clearing them.
func (c *Coalescer) Pending() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Take clears and returns the accumulated flags. ok is false when nothing
// was requested.
func (c *Coalescer) Take() (f Flags, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, c.pending = c.pending, Flags{}
	if f.Any() {
		c.passes++
	}
	return f, f.Any()
}

// Passes counts the non-empty passes taken so far.
func (c *Coalescer) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

// Run calls fn once per interval with the merged flags, skipping idle
// ticks. It returns when ctx is cancelled.
func (c *Coalescer) Run(ctx context.Context, interval time.Duration, fn func(Flags)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if f, ok := c.Take(); ok {
				fn(f)
			}
		}
	}
}
