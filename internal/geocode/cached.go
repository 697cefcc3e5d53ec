package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/metrics"
)

// Cached wraps a Geocoder with a Redis cache for forward lookups and
// collapses concurrent identical lookups into one upstream call.
type Cached struct {
	inner Geocoder
	cache *cache.RedisCache
	ttl   time.Duration
	group singleflight.Group
}

// NewCached decorates inner. rc may be nil, leaving only request collapsing.
func NewCached(inner Geocoder, rc *cache.RedisCache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: rc, ttl: ttl}
}

func (c *Cached) Geocode(ctx context.Context, address string) (geo.Point, error) {
	if c.cache != nil {
		p, found, err := c.cache.GetPoint(ctx, address)
		if err != nil {
			slog.Warn("geocode cache read failed", "error", err)
		} else if found {
			metrics.GeocodeLookups.WithLabelValues("cache", "hit").Inc()
			return p, nil
		}
	}

	key := "fwd:" + c.keyFor(address)
	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := c.inner.Geocode(ctx, address)
		if err != nil {
			return geo.Point{}, err
		}
		if c.cache != nil {
			if err := c.cache.SetPoint(ctx, address, p, c.ttl); err != nil {
				slog.Warn("geocode cache write failed", "error", err)
			}
		}
		return p, nil
	})
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("upstream", "error").Inc()
		return geo.Point{}, err
	}
	metrics.GeocodeLookups.WithLabelValues("upstream", "ok").Inc()
	return v.(geo.Point), nil
}

func (c *Cached) Reverse(ctx context.Context, p geo.Point) (Place, error) {
	// coordinates rounded to ~1 m share a flight
	key := fmt.Sprintf("rev:%.5f,%.5f", p.Lat, p.Lng)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.inner.Reverse(ctx, p)
	})
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("reverse", "error").Inc()
		return Place{}, err
	}
	metrics.GeocodeLookups.WithLabelValues("reverse", "ok").Inc()
	return v.(Place), nil
}

func (c *Cached) keyFor(address string) string {
	if c.cache != nil {
		return c.cache.KeyForAddress(address)
	}
	return address
}
