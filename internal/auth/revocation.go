package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records tokens that must be rejected ahead of their natural
// expiry. The full token string is the key, since it is the only revocation
// handle available at logout time. Implementations must tolerate concurrent
// reads and writes; Blacklist is idempotent.
type RevocationStore interface {
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// MemoryRevocationStore keeps revoked tokens in process memory. Entries carry
// the token expiry so the janitor can prune them once they would have died
// anyway.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemoryRevocationStore builds an empty store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

// Blacklist records the token string as invalid.
func (s *MemoryRevocationStore) Blacklist(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = expiresAt
	return nil
}

// IsBlacklisted reports whether the exact token string has been revoked.
func (s *MemoryRevocationStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := s.revoked[token]
	return found, nil
}

// PruneExpired drops entries whose token has passed its natural expiry and
// returns how many were removed. A revoked-but-expired token fails expiry
// validation anyway, so dropping the entry cannot resurrect it.
func (s *MemoryRevocationStore) PruneExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, expiresAt := range s.revoked {
		if !expiresAt.After(now) {
			delete(s.revoked, token)
			removed++
		}
	}
	return removed
}

// Size returns the current number of revoked entries.
func (s *MemoryRevocationStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}

const redisRevocationPrefix = "auth:revoked:"

// RedisRevocationStore persists revocations in Redis so they survive restarts
// and are shared across instances. Keys expire with the token itself, so
// pruning needs no sweeper.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore wraps an existing client.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Blacklist stores the token keyed on its full string with a TTL equal to the
// remaining token lifetime. Already-expired tokens get a minimal TTL so the
// write still lands and re-logout stays idempotent.
func (s *RedisRevocationStore) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, redisRevocationPrefix+token, 1, ttl).Err()
}

// IsBlacklisted reports whether the exact token string has been revoked.
func (s *RedisRevocationStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	count, err := s.client.Exists(ctx, redisRevocationPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
