package deps

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/offpack/pkg/cache"
	"github.com/matzehuels/offpack/pkg/httputil"
	"github.com/matzehuels/offpack/pkg/observability"
)

// cacheKeyType labels document cache events for observability hooks.
const cacheKeyType = "registry"

// WithRetry retries fetches that fail with an httputil.RetryableError,
// doubling delay after each attempt.
func WithRetry(f Fetcher, attempts int, delay time.Duration) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string) (*Metadata, error) {
		var meta *Metadata
		err := httputil.Retry(ctx, attempts, delay, func() error {
			var err error
			meta, err = f.Fetch(ctx, name)
			return err
		})
		if err != nil {
			return nil, err
		}
		return meta, nil
	})
}

// DocumentCacheOptions configures WithDocumentCache.
type DocumentCacheOptions struct {
	Namespace string        // Separates registries sharing one cache, e.g. the registry URL
	Keyer     cache.Keyer   // Key derivation (default: cache.DefaultKeyer)
	TTL       time.Duration // Entry lifetime (default: 24h)
	Refresh   bool          // Skip reads, still write fresh documents
}

// WithDocumentCache stores fetched metadata in c so later runs skip the
// registry. Cache failures never fail a fetch; an unreadable entry counts
// as a miss.
func WithDocumentCache(f Fetcher, c cache.Cache, opts DocumentCacheOptions) Fetcher {
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	return FetcherFunc(func(ctx context.Context, name string) (*Metadata, error) {
		key := opts.Keyer.DocumentKey(opts.Namespace, name)
		hooks := observability.Cache()

		if !opts.Refresh {
			if data, ok, err := c.Get(ctx, key); err == nil && ok {
				var meta Metadata
				if json.Unmarshal(data, &meta) == nil && len(meta.Versions) > 0 {
					hooks.OnCacheHit(ctx, cacheKeyType)
					return &meta, nil
				}
			}
			hooks.OnCacheMiss(ctx, cacheKeyType)
		}

		meta, err := f.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(meta); err == nil {
			if c.Set(ctx, key, data, opts.TTL) == nil {
				hooks.OnCacheSet(ctx, cacheKeyType, len(data))
			}
		}
		return meta, nil
	})
}
