package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idem"

// IdempotencyStore remembers which resource a client-supplied Idempotency-Key
// produced, so a retried create returns the original resource instead of
// creating a second one.
//
// Key format: "idem:{scope}:{orgID}:{key}"
type IdempotencyStore struct {
	client *RedisClient
	scope  string
	ttl    time.Duration
}

// NewIdempotencyStore returns a store whose keys live for ttl.
func NewIdempotencyStore(r *RedisClient, scope string, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: r, scope: scope, ttl: ttl}
}

// Lookup returns the resource id recorded for key, or ok=false when none.
func (s *IdempotencyStore) Lookup(ctx context.Context, orgID uuid.UUID, key string) (uuid.UUID, bool, error) {
	val, err := s.client.Client().Get(ctx, s.key(orgID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("idempotency parse: %w", err)
	}
	return id, true, nil
}

// Remember records resourceID for key unless another request already did.
// Returns the id that is now stored for key.
func (s *IdempotencyStore) Remember(ctx context.Context, orgID uuid.UUID, key string, resourceID uuid.UUID) (uuid.UUID, error) {
	k := s.key(orgID, key)
	stored, err := s.client.Client().SetNX(ctx, k, resourceID.String(), s.ttl).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("idempotency remember: %w", err)
	}
	if stored {
		return resourceID, nil
	}
	existing, ok, err := s.Lookup(ctx, orgID, key)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return resourceID, nil
	}
	return existing, nil
}

func (s *IdempotencyStore) key(orgID uuid.UUID, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", idempotencyKeyPrefix, s.scope, orgID, key)
}
