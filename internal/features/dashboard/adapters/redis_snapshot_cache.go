package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-admin/internal/core/cache"
	"fleet-admin/internal/features/dashboard/domain"
)

const snapshotCacheKey = "dashboard:kpis"

// RedisSnapshotCache implements ports.SnapshotCache using the cache adaptation.
type RedisSnapshotCache struct {
	cache cache.Cache
}

// NewRedisSnapshotCache creates a new RedisSnapshotCache.
func NewRedisSnapshotCache(c cache.Cache) *RedisSnapshotCache {
	return &RedisSnapshotCache{cache: c}
}

// Save stores the snapshot for ttl.
func (r *RedisSnapshotCache) Save(ctx context.Context, s *domain.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.cache.Set(ctx, snapshotCacheKey, data, ttl); err != nil {
		return fmt.Errorf("failed to save snapshot to cache: %w", err)
	}
	return nil
}

// Get retrieves the snapshot from the cache.
func (r *RedisSnapshotCache) Get(ctx context.Context) (*domain.Snapshot, error) {
	data, err := r.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	s.Cached = true
	return &s, nil
}

// Delete removes the snapshot from the cache.
func (r *RedisSnapshotCache) Delete(ctx context.Context) error {
	if err := r.cache.Delete(ctx, snapshotCacheKey); err != nil {
		return fmt.Errorf("failed to delete snapshot from cache: %w", err)
	}
	return nil
}
