package work

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// MemoryLeaseManager keeps leases in process. Used when Redis is disabled.
type MemoryLeaseManager struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

func NewMemoryLeaseManager() *MemoryLeaseManager {
	return &MemoryLeaseManager{
		leases: make(map[string]memoryLease),
		now:    time.Now,
	}
}

func (m *MemoryLeaseManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.New("lease key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.leases[key]; ok && now.Before(held.expiresAt) {
		return nil, ErrLeaseHeld
	}

	lease := &Lease{Key: key, Token: uuid.NewString(), ExpiresAt: now.Add(ttl)}
	m.leases[key] = memoryLease{token: lease.Token, expiresAt: lease.ExpiresAt}
	return lease, nil
}

func (m *MemoryLeaseManager) Release(_ context.Context, lease *Lease) error {
	if lease == nil || lease.Key == "" || lease.Token == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.leases[lease.Key]; ok && held.token == lease.Token {
		delete(m.leases, lease.Key)
	}
	return nil
}
