// Package cache holds Redis-backed caches for the external Google lookups.
// Geocoding answers rarely change, so even a long TTL is safe and spares the
// API quota.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/wahdanz1/taxipred/internal/geo"
)

type GeoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGeoCache(client *redis.Client, ttl time.Duration) *GeoCache {
	return &GeoCache{client: client, ttl: ttl}
}

// GetSuggestions returns cached autocomplete results, or nil on a miss.
func (c *GeoCache) GetSuggestions(ctx context.Context, query string) ([]geo.Suggestion, error) {
	key := fmt.Sprintf("geo:suggest:%s", strings.ToLower(query))
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var suggestions []geo.Suggestion
	if err := json.Unmarshal([]byte(data), &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (c *GeoCache) SetSuggestions(ctx context.Context, query string, suggestions []geo.Suggestion) error {
	key := fmt.Sprintf("geo:suggest:%s", strings.ToLower(query))
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// GetDistance returns a cached road distance, with found=false on a miss.
func (c *GeoCache) GetDistance(ctx context.Context, origin, destination string) (km float64, found bool, err error) {
	key := distanceKey(origin, destination)
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	km, err = strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt distance cache entry %s: %w", key, err)
	}
	return km, true, nil
}

func (c *GeoCache) SetDistance(ctx context.Context, origin, destination string, km float64) error {
	key := distanceKey(origin, destination)
	return c.client.Set(ctx, key, strconv.FormatFloat(km, 'f', 2, 64), c.ttl).Err()
}

func distanceKey(origin, destination string) string {
	return fmt.Sprintf("geo:distance:%s|%s", strings.ToLower(origin), strings.ToLower(destination))
}
