package refresh

import (
	"context"
	"sync"
)

// cycleRunner serializes refresh cycles for one scope. Beginning a
// cycle cancels the previous in-flight one; a superseded cycle can
// still finish its computation but must never publish.
type cycleRunner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// begin cancels any in-flight cycle and opens a new one. The returned
// generation must be passed to commit when publishing.
func (c *cycleRunner) begin(parent context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.gen++
	return ctx, c.gen
}

// commit runs publish only if gen is still the newest cycle, holding
// the lock so a newer cycle cannot begin between the check and the
// publish. Reports whether publish ran.
func (c *cycleRunner) commit(gen uint64, publish func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	publish()
	return true
}

// stop cancels the in-flight cycle, if any.
func (c *cycleRunner) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
