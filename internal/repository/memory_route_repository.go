package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
)

// MemoryRouteRepository is an in-memory implementation of route.Repository
// for tests and local development.
type MemoryRouteRepository struct {
	mu     sync.RWMutex
	routes map[uuid.UUID]*routeDomain.Route
}

func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{routes: make(map[uuid.UUID]*routeDomain.Route)}
}

func (r *MemoryRouteRepository) FindByID(_ context.Context, id uuid.UUID) (*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[id]
	if !ok {
		return nil, domain.NewNotFoundError("Route", id.String())
	}
	return route, nil
}

func (r *MemoryRouteRepository) FindAll(_ context.Context) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*routeDomain.Route) bool { return true }), nil
}

func (r *MemoryRouteRepository) FindByTransportType(_ context.Context, transportType string) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rt *routeDomain.Route) bool { return rt.TransportType() == transportType }), nil
}

func (r *MemoryRouteRepository) FindByDepartureCity(_ context.Context, city string) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rt *routeDomain.Route) bool { return rt.DepartureCity() == city }), nil
}

func (r *MemoryRouteRepository) FindByDestinationCity(_ context.Context, city string) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rt *routeDomain.Route) bool { return rt.DestinationCity() == city }), nil
}

func (r *MemoryRouteRepository) FindByCityPair(_ context.Context, departureCity, destinationCity string) ([]*routeDomain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rt *routeDomain.Route) bool {
		return rt.DepartureCity() == departureCity && rt.DestinationCity() == destinationCity
	}), nil
}

func (r *MemoryRouteRepository) Save(_ context.Context, route *routeDomain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route.ID()] = route
	return nil
}

func (r *MemoryRouteRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[id]; !ok {
		return domain.NewNotFoundError("Route", id.String())
	}
	delete(r.routes, id)
	return nil
}

// replace swaps a stored route snapshot. Used by the booking repository's
// seat mutation path.
func (r *MemoryRouteRepository) replace(route *routeDomain.Route) {
	r.routes[route.ID()] = route
}

func (r *MemoryRouteRepository) collect(match func(*routeDomain.Route) bool) []*routeDomain.Route {
	result := make([]*routeDomain.Route, 0, len(r.routes))
	for _, rt := range r.routes {
		if match(rt) {
			result = append(result, rt)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DepartureTime().Before(result[j].DepartureTime())
	})
	return result
}
