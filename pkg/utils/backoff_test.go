package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateExponentialBackoffWithJitter_ZeroForFirstAttempt(t *testing.T) {
	assert.Equal(t, time.Duration(0), CalculateExponentialBackoffWithJitter(0, time.Second, time.Minute))
	assert.Equal(t, time.Duration(0), CalculateExponentialBackoffWithJitter(-1, time.Second, time.Minute))
}

func TestCalculateExponentialBackoffWithJitter_GrowsAndCaps(t *testing.T) {
	base := 100 * time.Millisecond
	max := 2 * time.Second

	for count := 1; count <= 10; count++ {
		delay := CalculateExponentialBackoffWithJitter(count, base, max)
		assert.LessOrEqual(t, delay, max, "count %d", count)
		assert.Greater(t, delay, time.Duration(0), "count %d", count)
	}

	// High counts must be capped at max.
	assert.Equal(t, max, CalculateExponentialBackoffWithJitter(10, base, max))
}
