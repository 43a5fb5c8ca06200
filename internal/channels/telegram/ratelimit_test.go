package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := newRateLimiter(1, 2)
	assert.True(t, rl.allow())
	assert.True(t, rl.allow())
	assert.False(t, rl.allow())
}

func TestRateLimiterWaitReturnsWhenTokenAvailable(t *testing.T) {
	rl := newRateLimiter(1000, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, rl.Wait(ctx))
}

func TestRateLimiterWaitRespectsCancellation(t *testing.T) {
	rl := newRateLimiter(0.001, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx)
	assert.Error(t, err)
}
