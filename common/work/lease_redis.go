package work

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/redis"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const defaultLeasePrefix = "work:lease:"

// RedisLeaseManager shares leases between service instances. Acquire is a
// SET NX PX; Release deletes the key only while it still holds our token.
type RedisLeaseManager struct {
	client *redis.RedisClient
	prefix string
}

func NewRedisLeaseManager(client *redis.RedisClient, prefix string) (*RedisLeaseManager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultLeasePrefix
	}
	return &RedisLeaseManager{client: client, prefix: prefix}, nil
}

func (m *RedisLeaseManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("lease key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}

	token := uuid.NewString()
	now := time.Now().UTC()
	ok, err := m.client.SetNX(ctx, m.key(key), token, ttl)
	if err != nil {
		return nil, fmt.Errorf("acquiring lease %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLeaseHeld
	}

	return &Lease{Key: key, Token: token, ExpiresAt: now.Add(ttl)}, nil
}

// Release runs on its own context so a cancelled request still frees the key.
func (m *RedisLeaseManager) Release(_ context.Context, lease *Lease) error {
	if lease == nil || lease.Key == "" || lease.Token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.client.RunScript(ctx, releaseLeaseScript, []string{m.key(lease.Key)}, lease.Token); err != nil {
		return fmt.Errorf("releasing lease %s: %w", lease.Key, err)
	}
	return nil
}

func (m *RedisLeaseManager) key(key string) string {
	return m.prefix + key
}

var releaseLeaseScript = redisv9.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)
