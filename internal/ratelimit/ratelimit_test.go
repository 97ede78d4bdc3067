package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	kl := New(1, 2)

	assert.True(t, kl.Allow("10.0.0.1"))
	assert.True(t, kl.Allow("10.0.0.1"))
	assert.False(t, kl.Allow("10.0.0.1"), "burst exhausted")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	kl := New(1, 1)

	assert.True(t, kl.Allow("10.0.0.1"))
	assert.False(t, kl.Allow("10.0.0.1"))
	assert.True(t, kl.Allow("10.0.0.2"), "a different key gets its own bucket")
}

func TestWait_CanceledContext(t *testing.T) {
	kl := New(0.001, 1)
	require.True(t, kl.Allow("k"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := kl.Wait(ctx, "k")
	assert.Error(t, err, "Wait must give up when the context expires")
}

func TestAllow_ConcurrentSameKey(t *testing.T) {
	kl := New(1, 4)

	results := make(chan bool, 16)
	for range 16 {
		go func() { results <- kl.Allow("shared") }()
	}

	allowed := 0
	for range 16 {
		if <-results {
			allowed++
		}
	}
	assert.Equal(t, 4, allowed, "exactly the burst size may pass")
}
