// Package work coordinates refreshes of the same data source across
// goroutines and service instances.
package work

import (
	"context"
	"errors"
	"time"
)

// DefaultLeaseTTL bounds how long a crashed holder can block a source.
const DefaultLeaseTTL = 5 * time.Minute

// ErrLeaseHeld is returned by Acquire while another holder owns the key.
var ErrLeaseHeld = errors.New("lease is held by another worker")

// Lease is a held per-key lock. Token identifies the holder so only the
// holder can release it.
type Lease struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

// LeaseManager hands out per-key leases. Release is best-effort and is a
// no-op for a lease that has expired or been taken over.
type LeaseManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
	Release(ctx context.Context, lease *Lease) error
}
