// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"beefarena/internal/models"
)

const (
	// generationKeyPrefix is the Valkey key prefix for cached generations.
	generationKeyPrefix = "generation:"

	// DefaultGenerationTTL is how long a stored generation stays cached.
	// Rows are never updated, so the TTL only bounds memory use.
	DefaultGenerationTTL = 1 * time.Hour
)

// GenerationCache keeps JSON copies of stored generations in Valkey so
// repeated share-link lookups skip PostgreSQL. A nil *GenerationCache is a
// valid, always-missing cache.
type GenerationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGenerationCache creates a generation cache backed by the given client.
func NewGenerationCache(client *redis.Client, ttl time.Duration) *GenerationCache {
	if ttl == 0 {
		ttl = DefaultGenerationTTL
	}
	return &GenerationCache{client: client, ttl: ttl}
}

// Get returns the cached generation, or false on miss or error.
func (c *GenerationCache) Get(ctx context.Context, id uuid.UUID) (*models.Generation, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, generationKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("generation cache get error", "id", id, "error", err)
		return nil, false
	}

	var g models.Generation
	if err := json.Unmarshal(val, &g); err != nil {
		slog.Warn("generation cache decode error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("generation cache hit", "id", id)
	return &g, true
}

// Set stores a generation with the configured TTL. Errors are logged only.
func (c *GenerationCache) Set(ctx context.Context, g *models.Generation) {
	if c == nil || g == nil {
		return
	}

	data, err := json.Marshal(g)
	if err != nil {
		slog.Warn("generation cache encode error", "id", g.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, generationKeyPrefix+g.ID.String(), data, c.ttl).Err(); err != nil {
		slog.Warn("generation cache set error", "id", g.ID, "error", err)
	}
}
