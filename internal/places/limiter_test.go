package places

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallLimiterCeiling(t *testing.T) {
	l := NewCallLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(), "call %d should be allowed", i+1)
	}
	assert.False(t, l.Allow(), "call past the ceiling must be refused")
	assert.Equal(t, 3, l.InWindow())
}

func TestCallLimiterWindowElapses(t *testing.T) {
	now := time.Now()
	l := NewCallLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	// Refusals must not extend the window.
	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow())
	assert.Equal(t, 1, l.InWindow())
}

func TestCallLimiterPartialPrune(t *testing.T) {
	now := time.Now()
	l := NewCallLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow())
	now = now.Add(45 * time.Second)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	// First call ages out, second is still inside the window.
	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestCallLimiterConcurrentAccess(t *testing.T) {
	l := NewCallLimiter(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Allow()
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count)
}
