package runguard

import (
	"context"
	"sync"
	"time"

	"github.com/salesops/backend/internal/domain/shared"
)

// lease represents a held lock with expiration
type lease struct {
	expiresAt time.Time
}

// MemoryGuard implements RunGuard using an in-memory map.
// Suitable for single-instance deployments and testing; locks held by a
// crashed run expire through the TTL safety net.
type MemoryGuard struct {
	mu        sync.Mutex
	leases    map[string]lease
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryGuard creates a new in-memory run guard.
// It starts a background goroutine to clean up expired leases.
func NewMemoryGuard() *MemoryGuard {
	guard := &MemoryGuard{
		leases:   make(map[string]lease),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// Acquire takes the lock for a key.
// Returns true if the lock was newly acquired, false if it is still held.
func (g *MemoryGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, exists := g.leases[key]; exists {
		if time.Now().Before(l.expiresAt) {
			return false, nil // Held by another run
		}
		// Lease exists but expired, will be overwritten
	}

	g.leases[key] = lease{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Release releases the lock for a key
func (g *MemoryGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.leases, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (g *MemoryGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired leases
func (g *MemoryGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup removes expired leases from the guard
func (g *MemoryGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, l := range g.leases {
		if now.After(l.expiresAt) {
			delete(g.leases, key)
		}
	}
}

// Size returns the number of held leases (for testing/monitoring)
func (g *MemoryGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.leases)
}

// Ensure MemoryGuard implements RunGuard
var _ shared.RunGuard = (*MemoryGuard)(nil)
