package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
//
// Reserve and Release are the only operations allowed to touch a route's
// available-seat counter, and each must apply the counter change and the
// booking row change as one atomic unit so the 0 <= available <= total
// invariant holds under concurrent access.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindAll retrieves every stored booking.
	FindAll(ctx context.Context) ([]*Booking, error)

	// FindByPassengerName retrieves bookings made under the given full name.
	FindByPassengerName(ctx context.Context, fullName string) ([]*Booking, error)

	// FindByRouteID retrieves all bookings against a route.
	FindByRouteID(ctx context.Context, routeID uuid.UUID) ([]*Booking, error)

	// FindByRouteAndPhone retrieves the booking made against a route with the
	// given passenger phone.
	FindByRouteAndPhone(ctx context.Context, routeID uuid.UUID, phone string) (*Booking, error)

	// Reserve atomically debits one seat from the booking's route and inserts
	// the booking row. Fails with a not-found error if the route is absent and
	// a no-availability error if its counter is already zero; either way no
	// partial state is left behind.
	Reserve(ctx context.Context, b *Booking) error

	// Release atomically credits one seat back to the referenced route and
	// deletes the booking row. Fails with a not-found error if the booking is
	// absent.
	Release(ctx context.Context, id uuid.UUID) error
}
