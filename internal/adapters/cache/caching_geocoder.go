package cache

import (
	"context"
	"errors"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"

	"go.uber.org/zap"
)

// CachingGeocoder consults a PlaceCache before the wrapped Geocoder and
// stores fresh results. Cache failures are logged and never fail a lookup.
type CachingGeocoder struct {
	next  ports.Geocoder
	cache ports.PlaceCache
	log   *zap.Logger
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.PlaceCache, log *zap.Logger) (*CachingGeocoder, error) {
	if next == nil {
		return nil, errors.New("caching geocoder: geocoder is nil")
	}
	if cache == nil {
		return nil, errors.New("caching geocoder: cache is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachingGeocoder{next: next, cache: cache, log: log}, nil
}

func (g *CachingGeocoder) Resolve(ctx context.Context, reference string) (domain.Coordinate, error) {
	c, ok, err := g.cache.Get(ctx, reference)
	if err != nil {
		g.log.Warn("place cache lookup failed", zap.String("reference", reference), zap.Error(err))
	}
	if ok {
		return c, nil
	}

	c, err = g.next.Resolve(ctx, reference)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if err := g.cache.Put(ctx, reference, c); err != nil {
		g.log.Warn("place cache store failed", zap.String("reference", reference), zap.Error(err))
	}
	return c, nil
}
