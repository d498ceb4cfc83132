package runguard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard_AcquireRelease(t *testing.T) {
	guard := NewMemoryGuard()
	defer guard.Close()

	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "reconcile:customer:c1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Second acquire on the same key is denied while held
	acquired, err = guard.Acquire(ctx, "reconcile:customer:c1", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	// A different key is independent
	acquired, err = guard.Acquire(ctx, "reconcile:customer:c2", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Release makes the key available again
	require.NoError(t, guard.Release(ctx, "reconcile:customer:c1"))

	acquired, err = guard.Acquire(ctx, "reconcile:customer:c1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryGuard_Expiry(t *testing.T) {
	guard := NewMemoryGuard()
	defer guard.Close()

	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "key1", 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = guard.Acquire(ctx, "key1", 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, acquired)

	time.Sleep(60 * time.Millisecond)

	// Expired lease can be taken over without an explicit release
	acquired, err = guard.Acquire(ctx, "key1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryGuard_ConcurrentAcquire(t *testing.T) {
	guard := NewMemoryGuard()
	defer guard.Close()

	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired, err := guard.Acquire(ctx, "contended", time.Minute)
			assert.NoError(t, err)
			if acquired {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one goroutine wins the lock
	assert.Equal(t, 1, winners)
}

func TestMemoryGuard_Cleanup(t *testing.T) {
	guard := NewMemoryGuard()
	defer guard.Close()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := guard.Acquire(ctx, fmt.Sprintf("key%d", i), 10*time.Millisecond)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, guard.Size())

	time.Sleep(20 * time.Millisecond)
	guard.cleanup()

	assert.Equal(t, 0, guard.Size())
}

func TestMemoryGuard_CloseIsIdempotent(t *testing.T) {
	guard := NewMemoryGuard()

	require.NoError(t, guard.Close())
	require.NoError(t, guard.Close())
}

func TestMemoryGuard_ReleaseUnheldKey(t *testing.T) {
	guard := NewMemoryGuard()
	defer guard.Close()

	// Releasing a key that was never acquired is not an error
	assert.NoError(t, guard.Release(context.Background(), "never-acquired"))
}
