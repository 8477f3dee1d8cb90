package resilience

import (
	"sync"
	"time"
)

// State represents the cooldown state
type State int

const (
	StateClear State = iota
	StateLimited
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClear:
		return "clear"
	case StateLimited:
		return "limited"
	default:
		return "unknown"
	}
}

// DefaultWait applies when the server names no retry window
const DefaultWait = 2 * time.Second

// Settings configures the cooldown behavior
type Settings struct {
	// DefaultWait is used by Trip when the hint is not positive
	DefaultWait time.Duration
	// Now returns the current time; tests inject a fake clock
	Now func() time.Time
	// OnStateChange is called whenever the state changes, with the lock released
	OnStateChange func(from State, to State)
}

// Cooldown tracks a single server-imposed rate-limit window
type Cooldown struct {
	settings Settings

	mu      sync.Mutex
	state   State
	retryAt time.Time
}

// NewCooldown creates a clear cooldown with the given settings
func NewCooldown(settings Settings) *Cooldown {
	if settings.DefaultWait <= 0 {
		settings.DefaultWait = DefaultWait
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Cooldown{settings: settings, state: StateClear}
}

// Check reports whether calls are currently refused and until when. An
// elapsed window is cleared.
func (c *Cooldown) Check() (time.Time, bool) {
	c.mu.Lock()
	if c.state == StateLimited && !c.settings.Now().Before(c.retryAt) {
		c.state = StateClear
		c.retryAt = time.Time{}
		c.mu.Unlock()
		c.notify(StateLimited, StateClear)
		return time.Time{}, false
	}
	state, retryAt := c.state, c.retryAt
	c.mu.Unlock()

	return retryAt, state == StateLimited
}

// Trip starts a window of length wait and returns its end. A non-positive
// wait falls back to the default.
func (c *Cooldown) Trip(wait time.Duration) time.Time {
	if wait <= 0 {
		wait = c.settings.DefaultWait
	}

	c.mu.Lock()
	prev := c.state
	c.state = StateLimited
	c.retryAt = c.settings.Now().Add(wait)
	retryAt := c.retryAt
	c.mu.Unlock()

	if prev != StateLimited {
		c.notify(prev, StateLimited)
	}
	return retryAt
}

// State returns the current state without clearing an elapsed window
func (c *Cooldown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Remaining returns the time left in the window, zero when clear
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLimited {
		return 0
	}
	if d := c.retryAt.Sub(c.settings.Now()); d > 0 {
		return d
	}
	return 0
}

func (c *Cooldown) notify(from, to State) {
	if c.settings.OnStateChange != nil {
		c.settings.OnStateChange(from, to)
	}
}
