package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const familyKeyPrefix = "variants:family:"

// FamilyCache stores variant family snapshots in Redis.
// A nil client turns every call into a miss.
type FamilyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewFamilyCache creates a new family cache.
func NewFamilyCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *FamilyCache {
	return &FamilyCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "family_cache").Logger(),
	}
}

// FamilyKey returns the Redis key for a family root.
func FamilyKey(rootID string) string {
	return familyKeyPrefix + rootID
}

// Get returns the cached family for rootID and whether it was present.
// Redis or decode failures are logged and reported as a miss.
func (c *FamilyCache) Get(ctx context.Context, rootID string) ([]model.Variant, bool) {
	if c == nil || c.client == nil || rootID == "" {
		return nil, false
	}

	data, err := c.client.Get(ctx, FamilyKey(rootID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("root_id", rootID).Msg("Family cache read failed")
		}
		return nil, false
	}

	var family []model.Variant
	if err := json.Unmarshal(data, &family); err != nil {
		c.logger.Warn().Err(err).Str("root_id", rootID).Msg("Discarding undecodable family cache entry")
		return nil, false
	}
	return family, true
}

// Set stores the family for rootID with the configured TTL.
func (c *FamilyCache) Set(ctx context.Context, rootID string, family []model.Variant) error {
	if c == nil || c.client == nil || rootID == "" {
		return nil
	}

	data, err := json.Marshal(family)
	if err != nil {
		return fmt.Errorf("failed to encode family: %w", err)
	}
	if err := c.client.Set(ctx, FamilyKey(rootID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write family cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached family for rootID.
func (c *FamilyCache) Invalidate(ctx context.Context, rootID string) error {
	if c == nil || c.client == nil || rootID == "" {
		return nil
	}
	if err := c.client.Del(ctx, FamilyKey(rootID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate family cache: %w", err)
	}
	return nil
}
