package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryRateLimiterFixedWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	limiter := NewInMemoryRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Other keys have their own bucket.
	assert.True(t, limiter.Allow("10.0.0.2"))

	// A fresh window resets the count.
	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"))
}
