package places

import (
	"sync"
	"time"
)

// CallLimiter bounds outbound provider calls inside a sliding window. It
// keeps the timestamps of recent calls; Allow prunes entries older than the
// window, refuses when the remainder has reached the ceiling, and records
// the new call otherwise.
//
// The limiter is an absolute backstop against runaway API spend, shared by
// every caller that talks to the provider. It is a soft limit: concurrent
// requests are serialized on the mutex, but callers racing between Allow
// and the actual transport can still overshoot slightly, which is accepted.
type CallLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	ceiling int
	calls   []time.Time

	now func() time.Time // test seam
}

// NewCallLimiter creates a limiter allowing ceiling calls per window.
func NewCallLimiter(ceiling int, window time.Duration) *CallLimiter {
	return &CallLimiter{
		window:  window,
		ceiling: ceiling,
		now:     time.Now,
	}
}

// Allow reports whether another call may be made now, and records it if so.
func (l *CallLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.calls) >= l.ceiling {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// InWindow returns the number of calls currently inside the window.
func (l *CallLimiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// prune drops timestamps older than the window. Caller holds the mutex.
func (l *CallLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.calls[:0]
	for _, ts := range l.calls {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.calls = kept
}
