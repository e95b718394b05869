package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/internal/domain"
)

const cacheKeyPrefix = "route:v1"

// CachedResolver serves route estimates from Redis and falls back to the
// wrapped Resolver on a miss. Redis failures are logged and never surface
// to the caller. Resolver failures are not cached.
type CachedResolver struct {
	next   Resolver
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver wraps next with a Redis cache whose entries expire after ttl.
func NewCachedResolver(next Resolver, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// GetDistance implements Resolver.
func (c *CachedResolver) GetDistance(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteEstimate, error) {
	key := cacheKey(from, to, mode)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var est domain.RouteEstimate
		jerr := json.Unmarshal(data, &est)
		if jerr == nil {
			return est, nil
		}
		c.logger.Warn("route cache: corrupt entry", "key", key, "error", jerr)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("route cache: get failed", "key", key, "error", err)
	}

	est, err := c.next.GetDistance(ctx, from, to, mode)
	if err != nil {
		return domain.RouteEstimate{}, err
	}

	payload, err := json.Marshal(est)
	if err != nil {
		c.logger.Warn("route cache: encode failed", "key", key, "error", err)
		return est, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("route cache: set failed", "key", key, "error", err)
	}
	return est, nil
}

// cacheKey rounds coordinates to five decimals (about one metre) so repeated
// lookups of the same place share an entry.
func cacheKey(from, to domain.Coordinates, mode domain.TransportMode) string {
	return fmt.Sprintf("%s:%s:%.5f,%.5f:%.5f,%.5f", cacheKeyPrefix, mode, from.Lat, from.Lng, to.Lat, to.Lng)
}
