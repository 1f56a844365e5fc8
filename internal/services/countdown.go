package services

import (
	"sync"
	"time"
)

type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Countdown tracks the time left until an expiry timestamp. It ticks once
// per interval and fires its expiry callback once, after which it stops.
// Remaining reads the clock, so it is exact between ticks.
type Countdown struct {
	interval  time.Duration
	now       func() time.Time
	newTicker tickerFunc

	mu        sync.Mutex
	expiresAt time.Time
	gen       uint64
	stop      chan struct{}
}

// NewCountdown creates a stopped countdown ticking every interval
func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval:  interval,
		now:       time.Now,
		newTicker: realTicker,
	}
}

// Start replaces any running countdown with one ending at expiresAt
func (c *Countdown) Start(expiresAt time.Time, onExpire func()) {
	c.mu.Lock()
	c.stopLocked()
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop
	c.expiresAt = expiresAt
	ticks, stopTicker := c.newTicker(c.interval)
	c.mu.Unlock()

	go c.run(gen, stop, ticks, stopTicker, onExpire)
}

func (c *Countdown) run(gen uint64, stop <-chan struct{}, ticks <-chan time.Time, stopTicker func(), onExpire func()) {
	defer stopTicker()
	for {
		select {
		case <-stop:
			return
		case <-ticks:
			c.mu.Lock()
			if c.gen != gen {
				c.mu.Unlock()
				return
			}
			if c.now().Before(c.expiresAt) {
				c.mu.Unlock()
				continue
			}
			c.stopLocked()
			c.mu.Unlock()

			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

// Stop halts the countdown without firing the expiry callback
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.expiresAt = time.Time{}
}

// Running reports whether a countdown is active
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Remaining returns the time left, zero when stopped or expired
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return 0
	}
	if d := c.expiresAt.Sub(c.now()); d > 0 {
		return d
	}
	return 0
}
