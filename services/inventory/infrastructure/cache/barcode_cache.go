package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/restocker/pkg/cache"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
)

const (
	// DefaultBarcodeTTL is used when the configured TTL is not positive.
	DefaultBarcodeTTL = 30 * 24 * time.Hour

	barcodeKeyPrefix = "barcode"
)

// BarcodeEntry is what a scanned barcode resolves to when creating an item.
type BarcodeEntry struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Unit     string    `json:"unit"`
	CachedAt time.Time `json:"cached_at"`
}

// BarcodeCache maps barcodes to item names and units.
// Key format: "barcode:{code}", stored as a Redis hash.
type BarcodeCache struct {
	client *cache.RedisClient
	ttl    time.Duration
}

// NewBarcodeCache creates a BarcodeCache backed by the given RedisClient.
func NewBarcodeCache(r *cache.RedisClient, ttl time.Duration) *BarcodeCache {
	if ttl <= 0 {
		ttl = DefaultBarcodeTTL
	}
	return &BarcodeCache{client: r, ttl: ttl}
}

// Get returns the entry for code, or ErrBarcodeNotFound when nothing is
// cached or the entry expired.
func (c *BarcodeCache) Get(ctx context.Context, code string) (*BarcodeEntry, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, itemdomain.ErrBarcodeNotFound
	}
	vals, err := c.client.Client().HGetAll(ctx, c.key(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("barcode cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, itemdomain.ErrBarcodeNotFound
	}

	entry := &BarcodeEntry{Code: code, Name: vals["name"], Unit: vals["unit"]}
	if raw := vals["cached_at"]; raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("barcode cache parse cached_at: %w", err)
		}
		entry.CachedAt = ts
	}
	return entry, nil
}

// Set writes the entry and refreshes its TTL in one pipeline. Entries with a
// blank code or name are ignored.
func (c *BarcodeCache) Set(ctx context.Context, entry BarcodeEntry) error {
	code := normalizeCode(entry.Code)
	name := strings.TrimSpace(entry.Name)
	if code == "" || name == "" {
		return nil
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now()
	}

	key := c.key(code)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"name", name,
		"unit", strings.TrimSpace(entry.Unit),
		"cached_at", entry.CachedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("barcode cache set: %w", err)
	}
	return nil
}

// Delete removes the entry for code.
func (c *BarcodeCache) Delete(ctx context.Context, code string) error {
	if err := c.client.Client().Del(ctx, c.key(normalizeCode(code))).Err(); err != nil {
		return fmt.Errorf("barcode cache delete: %w", err)
	}
	return nil
}

func (c *BarcodeCache) key(code string) string {
	return barcodeKeyPrefix + ":" + code
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}
