package pkg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDistributedLimiter_Unlimited(t *testing.T) {
	limiter := NewDistributedLimiter(nil, "test:rate", 0, 0, time.Second, zap.NewNop())
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(context.Background()))
	}
}

func TestDistributedLimiter_LocalBurst(t *testing.T) {
	// No redis: purely local token bucket with burst 2.
	limiter := NewDistributedLimiter(nil, "test:rate", 1, 2, time.Second, zap.NewNop())

	assert.True(t, limiter.Allow(context.Background()))
	assert.True(t, limiter.Allow(context.Background()))
	assert.False(t, limiter.Allow(context.Background()))
}
