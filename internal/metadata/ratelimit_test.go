package metadata

import (
	"testing"
	"time"
)

func TestRateLimiterSleepsWithinInterval(t *testing.T) {
	clock := time.Unix(1000, 0)
	var slept []time.Duration

	l := NewRateLimiter(100 * time.Millisecond)
	l.now = func() time.Time { return clock }
	l.sleep = func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	// First call: no previous call close enough to matter.
	l.Wait()
	if len(slept) != 0 {
		t.Fatalf("first call slept %v, want no sleep", slept)
	}

	// Second call 30ms later must wait out the remaining 70ms.
	clock = clock.Add(30 * time.Millisecond)
	l.Wait()
	if len(slept) != 1 || slept[0] != 70*time.Millisecond {
		t.Errorf("slept %v, want [70ms]", slept)
	}

	// A call after the interval has fully passed does not sleep.
	clock = clock.Add(150 * time.Millisecond)
	l.Wait()
	if len(slept) != 1 {
		t.Errorf("slept %v, want no additional sleep", slept)
	}
}
