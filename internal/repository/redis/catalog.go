package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:listing"

// CatalogCache holds the most recent storefront listing so follow-up product
// references resolve without re-scraping every turn. The blob is stored
// without expiry; ttl only bounds freshness. A stale entry reads as a miss
// on Get but stays retrievable through GetStale, which callers use as a
// fallback when the live fetch fails.
type CatalogCache struct {
	client *Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache with the given freshness TTL
func NewCatalogCache(client *Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached listing if it is still fresh, or nil on a miss.
func (c *CatalogCache) Get(ctx context.Context) (*domain.Listing, error) {
	listing, err := c.load(ctx)
	if err != nil || listing == nil {
		return nil, err
	}
	if time.Since(listing.FetchedAt) > c.ttl {
		return nil, nil
	}
	return listing, nil
}

// GetStale returns the cached listing regardless of age, or nil when none
// was ever stored.
func (c *CatalogCache) GetStale(ctx context.Context) (*domain.Listing, error) {
	return c.load(ctx)
}

// Set stores a fresh listing snapshot.
func (c *CatalogCache) Set(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	return c.client.rdb.Set(ctx, catalogKey, data, 0).Err()
}

// Invalidate drops the cached listing.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, catalogKey).Err()
}

func (c *CatalogCache) load(ctx context.Context) (*domain.Listing, error) {
	data, err := c.client.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached listing: %w", err)
	}

	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return &listing, nil
}
