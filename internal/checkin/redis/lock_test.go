package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client using miniredis for testing
// miniredis is an in-memory Redis mock that doesn't require a real Redis server
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestLockTicket_AtomicOperation(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client)
	ctx := context.Background()

	// Test 1: Lock a ticket successfully
	locked, err := r.LockTicket(ctx, 42)
	require.NoError(t, err)
	assert.True(t, locked, "Should lock the ticket")

	// Test 2: The same ticket cannot be locked twice
	locked, err = r.LockTicket(ctx, 42)
	require.NoError(t, err)
	assert.False(t, locked, "Should not lock an already-locked ticket")

	// Test 3: A different ticket locks independently
	locked, err = r.LockTicket(ctx, 43)
	require.NoError(t, err)
	assert.True(t, locked, "A different ticket should lock fine")

	// Test 4: Unlock, then lock again
	err = r.UnlockTicket(ctx, 42)
	require.NoError(t, err)

	locked, err = r.LockTicket(ctx, 42)
	require.NoError(t, err)
	assert.True(t, locked, "Should lock again after unlock")
}

func TestLockTicket_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client)
	ctx := context.Background()

	locked, err := r.LockTicket(ctx, 7)
	require.NoError(t, err)
	assert.True(t, locked)

	// Simulate a crashed holder: the TTL releases the lock on its own
	mr.FastForward(11 * time.Second)

	locked, err = r.LockTicket(ctx, 7)
	require.NoError(t, err)
	assert.True(t, locked, "Lock should be re-acquirable after the TTL expires")
}

func TestUnlockTicket_MissingKeyIsNotAnError(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client)

	err := r.UnlockTicket(context.Background(), 9999)
	assert.NoError(t, err, "Unlocking an expired or never-held lock must not fail")
}

func TestLockTicket_ConcurrentScans(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client)
	ctx := context.Background()

	// Fire concurrent scans of the same ticket without unlocking; exactly
	// one may win.
	const numGoroutines = 20
	var wg sync.WaitGroup
	successCount := 0
	var mu sync.Mutex

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			locked, err := r.LockTicket(ctx, 100)
			if err == nil && locked {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successCount, "Exactly one concurrent scan should hold the lock")
}

func TestScanLockTTLFromEnvironment(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client)

	t.Setenv("SCAN_LOCK_TTL_SECONDS", "30")
	assert.Equal(t, 30*time.Second, r.getScanLockTTL())

	t.Setenv("SCAN_LOCK_TTL_SECONDS", "not-a-number")
	assert.Equal(t, 10*time.Second, r.getScanLockTTL(), "Garbage falls back to the default")

	t.Setenv("SCAN_LOCK_TTL_SECONDS", "-5")
	assert.Equal(t, 10*time.Second, r.getScanLockTTL(), "Non-positive falls back to the default")
}
