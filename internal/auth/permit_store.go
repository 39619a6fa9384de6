package auth

import (
	"context"
	"time"

	"fintrack/internal/cache"
)

const permitKeyPrefix = "reset_permit:"

// PermitStoreInterface tracks which reset token IDs are still usable.
type PermitStoreInterface interface {
	Grant(ctx context.Context, tokenID string, ttl time.Duration) error
	Consume(ctx context.Context, tokenID string) (bool, error)
}

// PermitStore records issued reset token IDs in Redis. Consuming an ID
// removes it in a single round trip, so a token resets a password at most once
// even when presented concurrently.
type PermitStore struct {
	cache *cache.Client
}

// Ensure PermitStore implements PermitStoreInterface
var _ PermitStoreInterface = (*PermitStore)(nil)

// NewPermitStore creates a new permit store.
func NewPermitStore(cache *cache.Client) *PermitStore {
	return &PermitStore{cache: cache}
}

// Grant registers a token ID as usable for the given TTL.
func (s *PermitStore) Grant(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, permitKeyPrefix+tokenID, []byte("1"), ttl)
}

// Consume reports whether the token ID was still usable and retires it.
func (s *PermitStore) Consume(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.GetDel(ctx, permitKeyPrefix+tokenID)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
