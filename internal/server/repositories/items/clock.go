package items

import (
	"sync"
	"time"
)

// Clock hands out UTC timestamps at microsecond precision (the finest both
// backends store) that strictly increase between calls.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock returns a Clock reading from now; nil means time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Next returns a timestamp later than any previously returned one.
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// Option configures a repository.
type Option func(*options)

type options struct {
	clock *Clock
}

// WithClock replaces the repository clock.
func WithClock(c *Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.clock == nil {
		o.clock = NewClock(nil)
	}
	return o
}
