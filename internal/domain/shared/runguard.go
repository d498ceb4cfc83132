package shared

import (
	"context"
	"time"
)

// RunGuard provides per-key mutual exclusion for reconciliation runs.
// Two runs for the same customer must never execute concurrently; runs for
// different customers need no coordination.
type RunGuard interface {
	// Acquire attempts to take the lock for the given key with a TTL.
	// Returns true if the lock was newly acquired, false if it is held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock for the given key.
	Release(ctx context.Context, key string) error

	// Close releases any resources held by the guard
	Close() error
}

// RunGuardConfig holds configuration for run guarding
type RunGuardConfig struct {
	// TTL is how long a lock is held at most before it expires.
	// Acts as a safety net if a run crashes without releasing.
	TTL time.Duration
}

// DefaultRunGuardConfig returns the default run guard configuration
func DefaultRunGuardConfig() RunGuardConfig {
	return RunGuardConfig{
		TTL: 10 * time.Minute,
	}
}
