// Package population tracks the number of live creatures in one simulation
// and derives the global time scale and reproduction gate from it.
package population

import "sync/atomic"

// Defaults for a Controller built with New.
const (
	DefaultTimeScale = 100.0
	DefaultCeiling   = 50
)

// Controller is the shared live-agent counter of a simulation.
// Register and Unregister may be called from any goroutine.
type Controller struct {
	count     atomic.Int64
	timeScale float64
	ceiling   int64
}

// New creates an empty controller. Bootstrapping the first agent must call
// Register like any other creation.
func New(timeScale float64, ceiling int) *Controller {
	if timeScale <= 0 {
		timeScale = DefaultTimeScale
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Controller{timeScale: timeScale, ceiling: int64(ceiling)}
}

// Register records one agent creation.
func (c *Controller) Register() {
	c.count.Add(1)
}

// Unregister records one agent destruction. It refuses to drop the count
// below zero and reports whether the decrement happened.
func (c *Controller) Unregister() bool {
	for {
		n := c.count.Load()
		if n <= 0 {
			return false
		}
		if c.count.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// Count returns the number of live agents.
func (c *Controller) Count() int {
	return int(c.count.Load())
}

// SpeedMultiplier returns timeScale / count. More agents means less
// simulated time per real second.
// The driver never asks with zero agents; doing so panics.
func (c *Controller) SpeedMultiplier() float64 {
	n := c.count.Load()
	if n <= 0 {
		panic("population: SpeedMultiplier called with no live agents")
	}
	return c.timeScale / float64(n)
}

// CanReproduce reports whether the population is below its ceiling.
func (c *Controller) CanReproduce() bool {
	return c.count.Load() < c.ceiling
}

// Ceiling returns the population cap.
func (c *Controller) Ceiling() int {
	return int(c.ceiling)
}
