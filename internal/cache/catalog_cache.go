// Package cache provides the read-through CatalogCache spec.md §9 calls out
// ("the catalog lookup is read-heavy and hot; a cache is appropriate so long
// as it is never the system of record"). Grounded on order_service's
// cacheOrder/getCachedOrder/clearOrderCache redis pattern, generalized to a
// struct so the pipeline's S3/S4 stages take it as a dependency rather than
// a service method.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/models"
	"github.com/rtnapps/Loyalty-Program/internal/repository"
)

var log = logging.GetLogger("catalog-cache")

// ErrCacheMiss is returned by the low-level Get methods; callers normally
// don't see it since CatalogCache falls back to Postgres transparently.
var ErrCacheMiss = errors.New("cache miss")

// CatalogCache wraps CatalogRepository/AllowanceRepository with a
// best-effort redis layer. Every method degrades to the underlying
// repository, including when client is nil, so a redis outage never fails a
// request — only slows it (spec.md §9).
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration

	catalog    *repository.CatalogRepository
	allowances *repository.AllowanceRepository
}

// NewCatalogCache creates a new CatalogCache. client may be nil to disable
// caching entirely and always read through to Postgres.
func NewCatalogCache(client *redis.Client, ttl time.Duration, catalog *repository.CatalogRepository, allowances *repository.AllowanceRepository) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl, catalog: catalog, allowances: allowances}
}

type cachedUPC struct {
	Entry   *models.CatalogEntry  `json:"entry"`
	Matched models.MatchedUPCType `json:"matched"`
	Found   bool                  `json:"found"`
}

// FindByUPC mirrors CatalogRepository.FindByUPC, serving from redis when
// available and falling back to Postgres on any cache miss or redis error.
func (c *CatalogCache) FindByUPC(ctx context.Context, upc string) (*models.CatalogEntry, models.MatchedUPCType, error) {
	key := fmt.Sprintf("catalog:upc:%s", upc)

	if cached, ok := c.getUPC(ctx, key); ok {
		if !cached.Found {
			return nil, "", nil
		}
		return cached.Entry, cached.Matched, nil
	}

	entry, matched, err := c.catalog.FindByUPC(ctx, upc)
	if err != nil {
		return nil, "", err
	}

	c.setUPC(ctx, key, cachedUPC{Entry: entry, Matched: matched, Found: entry != nil})
	return entry, matched, nil
}

func (c *CatalogCache) getUPC(ctx context.Context, key string) (cachedUPC, bool) {
	if c.client == nil {
		return cachedUPC{}, false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("catalog cache read failed", "key", key, "error", err)
		}
		return cachedUPC{}, false
	}
	var cached cachedUPC
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		log.Warn("catalog cache entry corrupt", "key", key, "error", err)
		return cachedUPC{}, false
	}
	return cached, true
}

func (c *CatalogCache) setUPC(ctx context.Context, key string, cached cachedUPC) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		log.Warn("failed to marshal catalog cache entry", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

// ActiveAllowancesForSKU mirrors AllowanceRepository.ActiveForSKU, cached by
// (skuGUID, day) since allowance eligibility only changes at most daily.
func (c *CatalogCache) ActiveAllowancesForSKU(ctx context.Context, skuGUID string, today time.Time) ([]models.AllowanceRule, error) {
	day := today.Format("2006-01-02")
	key := fmt.Sprintf("catalog:allowances:%s:%s", skuGUID, day)

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Result()
		if err == nil {
			var rules []models.AllowanceRule
			if jsonErr := json.Unmarshal([]byte(raw), &rules); jsonErr == nil {
				return rules, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("allowance cache read failed", "key", key, "error", err)
		}
	}

	rules, err := c.allowances.ActiveForSKU(ctx, skuGUID, today)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(rules); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Warn("allowance cache write failed", "key", key, "error", err)
			}
		}
	}

	return rules, nil
}

// ActiveGlobalAllowances mirrors AllowanceRepository.ActiveGlobal, cached by
// day since global rules only change at most daily.
func (c *CatalogCache) ActiveGlobalAllowances(ctx context.Context, today time.Time) ([]models.AllowanceRule, error) {
	day := today.Format("2006-01-02")
	key := fmt.Sprintf("catalog:allowances:global:%s", day)

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Result()
		if err == nil {
			var rules []models.AllowanceRule
			if jsonErr := json.Unmarshal([]byte(raw), &rules); jsonErr == nil {
				return rules, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("global allowance cache read failed", "key", key, "error", err)
		}
	}

	rules, err := c.allowances.ActiveGlobal(ctx, today)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(rules); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Warn("global allowance cache write failed", "key", key, "error", err)
			}
		}
	}

	return rules, nil
}
