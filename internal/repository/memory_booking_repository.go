package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	bookingDomain "github.com/intercity-transit/service-reservation/internal/domain/booking"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
)

// MemoryBookingRepository is an in-memory implementation of
// booking.Repository backed by a MemoryRouteRepository for seat counters.
// Reserve and Release mutate counters under the route repository's lock so
// the last-seat guarantees hold under concurrent callers.
type MemoryBookingRepository struct {
	routes   *MemoryRouteRepository
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func NewMemoryBookingRepository(routes *MemoryRouteRepository) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		routes:   routes,
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
	}
}

func (r *MemoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.routes.mu.RLock()
	defer r.routes.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return b, nil
}

func (r *MemoryBookingRepository) FindAll(_ context.Context) ([]*bookingDomain.Booking, error) {
	r.routes.mu.RLock()
	defer r.routes.mu.RUnlock()
	return r.collect(func(*bookingDomain.Booking) bool { return true }), nil
}

func (r *MemoryBookingRepository) FindByPassengerName(_ context.Context, name string) ([]*bookingDomain.Booking, error) {
	r.routes.mu.RLock()
	defer r.routes.mu.RUnlock()
	return r.collect(func(b *bookingDomain.Booking) bool { return b.PassengerFullName() == name }), nil
}

func (r *MemoryBookingRepository) FindByRouteID(_ context.Context, routeID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.routes.mu.RLock()
	defer r.routes.mu.RUnlock()
	return r.collect(func(b *bookingDomain.Booking) bool { return b.RouteID() == routeID }), nil
}

func (r *MemoryBookingRepository) FindByRouteAndPhone(_ context.Context, routeID uuid.UUID, phone string) (*bookingDomain.Booking, error) {
	r.routes.mu.RLock()
	defer r.routes.mu.RUnlock()
	for _, b := range r.bookings {
		if b.RouteID() == routeID && b.PassengerPhone() == phone {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", routeID.String())
}

func (r *MemoryBookingRepository) Reserve(_ context.Context, b *bookingDomain.Booking) error {
	r.routes.mu.Lock()
	defer r.routes.mu.Unlock()

	route, ok := r.routes.routes[b.RouteID()]
	if !ok {
		return domain.NewNotFoundError("Route", b.RouteID().String())
	}
	if route.AvailableSeats() <= 0 {
		return domain.NewNoAvailabilityError(b.RouteID().String())
	}
	r.routes.replace(withAvailableSeats(route, route.AvailableSeats()-1))
	r.bookings[b.ID()] = b
	return nil
}

func (r *MemoryBookingRepository) Release(_ context.Context, id uuid.UUID) error {
	r.routes.mu.Lock()
	defer r.routes.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return domain.NewNotFoundError("Booking", id.String())
	}
	if route, ok := r.routes.routes[b.RouteID()]; ok && route.AvailableSeats() < route.TotalSeats() {
		r.routes.replace(withAvailableSeats(route, route.AvailableSeats()+1))
	}
	delete(r.bookings, id)
	return nil
}

func withAvailableSeats(route *routeDomain.Route, seats int) *routeDomain.Route {
	return routeDomain.Reconstruct(
		route.ID(),
		route.TransportType(), route.DepartureCity(), route.DestinationCity(),
		route.DepartureTime(), route.ArrivalTime(),
		route.TotalSeats(), seats,
		route.CreatedAt(),
	)
}

func (r *MemoryBookingRepository) collect(match func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	result := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if match(b) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].BookedAt().Before(result[j].BookedAt())
	})
	return result
}
