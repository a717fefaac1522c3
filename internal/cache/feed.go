// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache (L2) of synthesized feed
// documents, keyed by web log and request path.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feeds.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a synthesized feed stays cached.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache stores rendered feed XML in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// FeedKey returns the cache key for a feed path of a web log.
func FeedKey(webLogID uuid.UUID, path string) string {
	return feedKeyPrefix + webLogID.String() + ":" + path
}

// Get retrieves a cached feed. Errors are logged and reported as a miss.
func (fc *FeedCache) Get(ctx context.Context, webLogID uuid.UUID, path string) ([]byte, bool) {
	key := FeedKey(webLogID, path)
	val, err := fc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a feed document with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, webLogID uuid.UUID, path string, doc []byte) {
	key := FeedKey(webLogID, path)
	if err := fc.client.Set(ctx, key, doc, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateWebLog removes every cached feed of one web log. Other
// tenants' entries are left alone.
func (fc *FeedCache) InvalidateWebLog(ctx context.Context, webLogID uuid.UUID) {
	var cursor uint64
	var deleted int
	pattern := feedKeyPrefix + webLogID.String() + ":*"
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "web_log_id", webLogID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("feed cache cleared", "web_log_id", webLogID, "deleted", deleted)
	}
}
