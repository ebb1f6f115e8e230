// Package cache provides an optional Redis-backed cache for the hot
// listing queries (sidebar and search candidates). Every key is scoped by
// an owner-level generation counter, so invalidation is a single INCR per
// write instead of a key scan. Cache failures are logged and degrade to
// repository reads; they never fail a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"jotion/internal/domain/models"
)

// DocumentCache caches listing query results per owner. A nil *DocumentCache
// is valid and disables caching.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a document cache backed by the given Redis client.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DocumentCache {
	return &DocumentCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// GetList returns a cached listing for (owner, scope), reporting whether the
// lookup hit.
func (c *DocumentCache) GetList(ctx context.Context, ownerID, scope string) ([]models.Document, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	version, err := c.version(ctx, ownerID)
	if err != nil {
		c.logger.Debug("cache version lookup failed", "owner_id", ownerID, "error", err)
		return nil, false
	}

	payload, err := c.client.Get(ctx, ListKey(ownerID, version, scope)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache get failed", "owner_id", ownerID, "scope", scope, "error", err)
		}
		return nil, false
	}

	var documents []models.Document
	if err := json.Unmarshal(payload, &documents); err != nil {
		c.logger.Warn("cache payload corrupt, skipping", "owner_id", ownerID, "scope", scope, "error", err)
		return nil, false
	}

	return documents, true
}

// SetList stores a listing for (owner, scope) at the owner's current cache
// generation.
func (c *DocumentCache) SetList(ctx context.Context, ownerID, scope string, documents []models.Document) {
	if c == nil || c.client == nil {
		return
	}

	version, err := c.version(ctx, ownerID)
	if err != nil {
		c.logger.Debug("cache version lookup failed", "owner_id", ownerID, "error", err)
		return
	}

	payload, err := json.Marshal(documents)
	if err != nil {
		c.logger.Warn("cache encode failed", "owner_id", ownerID, "scope", scope, "error", err)
		return
	}

	if err := c.client.Set(ctx, ListKey(ownerID, version, scope), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", "owner_id", ownerID, "scope", scope, "error", err)
	}
}

// Invalidate bumps the owner's cache generation, orphaning all cached
// listings for that owner.
func (c *DocumentCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Incr(ctx, VersionKey(ownerID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

// version reads the owner's current cache generation; a missing key is
// generation zero.
func (c *DocumentCache) version(ctx context.Context, ownerID string) (int64, error) {
	version, err := c.client.Get(ctx, VersionKey(ownerID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}
