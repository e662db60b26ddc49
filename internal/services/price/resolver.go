package price

import (
	"context"
	"fmt"
	"time"

	"pythia/internal/domain/asset"
	"pythia/internal/metrics"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// Source yields one price quote for an asset. Historical sources honor the
// instant; spot sources ignore it and quote the current price. A source
// signals "no data" by returning (0, nil); transport and API failures come
// back as errors. Either way the resolver moves on to the next source.
type Source interface {
	Name() string
	Quote(ctx context.Context, a asset.Asset, at time.Time) (float64, error)
}

// Cache stores resolved prices keyed by asset and minute. Implementations
// must treat failures as misses; the cache is an optimization, never a
// correctness dependency.
type Cache interface {
	GetPrice(ctx context.Context, key string) (float64, bool)
	SetPrice(ctx context.Context, key string, value float64)
}

// Resolver resolves an asset's price for a given instant by walking an
// ordered list of sources. The first strictly positive quote wins; a zero or
// negative quote counts as no data. When every source falls through the
// caller gets ErrPriceUnavailable and is expected to soft-skip the entry.
type Resolver struct {
	sources []Source
	cache   Cache
	timeout time.Duration
	log     *logger.Logger
}

// NewResolver creates a resolver over the given sources, tried in order.
// cache may be nil.
func NewResolver(timeout time.Duration, cache Cache, sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		cache:   cache,
		timeout: timeout,
		log:     logger.Get().With("component", "price_resolver"),
	}
}

// Resolve returns the price of a at the given instant
func (r *Resolver) Resolve(ctx context.Context, a asset.Asset, at time.Time) (float64, error) {
	if !a.Supported() {
		return 0, errors.ErrUnsupportedAsset
	}

	key := cacheKey(a, at)
	if r.cache != nil {
		if v, ok := r.cache.GetPrice(ctx, key); ok {
			metrics.PriceLookups.WithLabelValues("cache", "hit").Inc()
			return v, nil
		}
	}

	for _, src := range r.sources {
		value, err := r.quote(ctx, src, a, at)
		if err != nil {
			r.log.Warnf("price source %s failed for %s: %v", src.Name(), a, err)
			metrics.PriceLookups.WithLabelValues(src.Name(), "error").Inc()
			continue
		}
		if value <= 0 {
			metrics.PriceLookups.WithLabelValues(src.Name(), "no_data").Inc()
			continue
		}

		metrics.PriceLookups.WithLabelValues(src.Name(), "success").Inc()
		if r.cache != nil {
			r.cache.SetPrice(ctx, key, value)
		}
		return value, nil
	}

	return 0, errors.Wrapf(errors.ErrPriceUnavailable, "%s at %s", a, at.Format(time.RFC3339))
}

// quote calls one source under the per-stage timeout
func (r *Resolver) quote(ctx context.Context, src Source, a asset.Asset, at time.Time) (float64, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return src.Quote(ctx, a, at)
}

func cacheKey(a asset.Asset, at time.Time) string {
	return fmt.Sprintf("price:%s:%d", a.Symbol(), at.Truncate(time.Minute).Unix())
}
