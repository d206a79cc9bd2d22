package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins the limiter's clock so refills are deterministic.
func fixedClock(l *Limiter, start time.Time) *time.Time {
	now := start
	l.now = func() time.Time { return now }
	return &now
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
	assert.LessOrEqual(t, info.RetryAfter, 7*time.Second, "one token refills every six seconds")
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		EndpointConfigs: []EndpointConfig{{Path: "/tailor", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1}},
	})
	defer limiter.Stop()
	now := fixedClock(limiter, time.Now())

	allowed, _ := limiter.Allow("c", "/tailor", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/tailor", "POST")
	require.False(t, allowed)

	*now = now.Add(1100 * time.Millisecond)
	allowed, _ = limiter.Allow("c", "/tailor", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/tailor", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(ForTailoring(false, 1, 1))
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("c", "/tailor", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_TailoringEndpoints(t *testing.T) {
	limiter := NewLimiter(ForTailoring(true, 10, 2))
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/profiles/abc/tailor", "POST")
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/profiles/abc/tailor", "POST")
	assert.False(t, allowed, "burst of two exhausted")

	allowed, info := limiter.Allow("c", "/tailor", "POST")
	assert.True(t, allowed, "each endpoint has its own bucket")
	assert.Equal(t, 10, info.Limit)

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = limiter.Allow("c", "/metrics", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("shared", "/x", "GET"); ok {
					allowedCount.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Minute,
	})
	defer limiter.Stop()
	now := fixedClock(limiter, time.Now())

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/x", "GET")
	}
	require.Equal(t, 3, limiter.Size())

	*now = now.Add(30 * time.Second)
	limiter.Allow("client-0", "/x", "GET")
	limiter.evictIdle(now.Add(45 * time.Second))
	assert.Equal(t, 1, limiter.Size())
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(5, 1)

	assert.Equal(t, "/tailor", MatchEndpoint("/tailor", "POST", configs).Path)
	assert.Equal(t, "/profiles/", MatchEndpoint("/profiles/123/tailor", "POST", configs).Path)
	assert.Nil(t, MatchEndpoint("/tailor", "GET", configs))
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Limit)
	assert.Zero(t, MatchEndpoint("/metrics", "GET", configs).Limit)
}
