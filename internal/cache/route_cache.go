package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"go.uber.org/zap"
)

const universeKey = "routes:universe"

// cachedRoute is the serialized form of a route snapshot.
type cachedRoute struct {
	ID              uuid.UUID `json:"id"`
	TransportType   string    `json:"transport_type"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	TotalSeats      int       `json:"total_seats"`
	AvailableSeats  int       `json:"available_seats"`
	CreatedAt       time.Time `json:"created_at"`
}

// RouteCache is a cache-aside store for the full route set read by the
// search path. Availability counters in cached snapshots may lag behind the
// store; booking correctness never depends on them.
type RouteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRouteCache creates a RouteCache with the given snapshot TTL.
func NewRouteCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RouteCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RouteCache{client: client, ttl: ttl, logger: logger}
}

// GetUniverse returns the cached route set, or ok=false on a miss or any
// redis failure. Failures are logged, never propagated; the caller falls
// back to the store.
func (c *RouteCache) GetUniverse(ctx context.Context) ([]*routeDomain.Route, bool) {
	payload, err := c.client.Get(ctx, universeKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("route cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var cached []cachedRoute
	if err := json.Unmarshal(payload, &cached); err != nil {
		c.logger.Warn("route cache payload corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, universeKey).Err()
		return nil, false
	}

	routes := make([]*routeDomain.Route, len(cached))
	for i, cr := range cached {
		routes[i] = routeDomain.Reconstruct(
			cr.ID,
			cr.TransportType, cr.DepartureCity, cr.DestinationCity,
			cr.DepartureTime, cr.ArrivalTime,
			cr.TotalSeats, cr.AvailableSeats,
			cr.CreatedAt,
		)
	}
	return routes, true
}

// SetUniverse stores the route set snapshot under the configured TTL.
func (c *RouteCache) SetUniverse(ctx context.Context, routes []*routeDomain.Route) {
	cached := make([]cachedRoute, len(routes))
	for i, r := range routes {
		cached[i] = cachedRoute{
			ID:              r.ID(),
			TransportType:   r.TransportType(),
			DepartureCity:   r.DepartureCity(),
			DestinationCity: r.DestinationCity(),
			DepartureTime:   r.DepartureTime(),
			ArrivalTime:     r.ArrivalTime(),
			TotalSeats:      r.TotalSeats(),
			AvailableSeats:  r.AvailableSeats(),
			CreatedAt:       r.CreatedAt(),
		}
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("failed to marshal route cache payload", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, universeKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("route cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached snapshot. Called after route creation/deletion.
func (c *RouteCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, universeKey).Err(); err != nil {
		c.logger.Warn("route cache invalidation failed", zap.Error(err))
	}
}
