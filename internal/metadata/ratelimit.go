package metadata

import (
	"sync"
	"time"
)

// minLookupInterval is the smallest gap allowed between two calls to
// the same bibliographic service.
const minLookupInterval = 100 * time.Millisecond

// RateLimiter enforces a minimum interval between outbound calls to one
// service. One instance exists per service for the life of the process,
// so the interval holds across concurrent requests.
type RateLimiter struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter returns a limiter with the given minimum interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until at least the interval has passed since the previous
// call, then records the new call time. The check and the sleep happen
// under the lock so concurrent callers serialize.
func (l *RateLimiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if wait := l.interval - l.now().Sub(l.last); wait > 0 {
		l.sleep(wait)
	}
	l.last = l.now()
}
