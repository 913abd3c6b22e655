package route

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for route aggregates.
// Seat counters are never written through this interface; they are mutated
// only inside the booking repository's transactional reserve/release path.
type Repository interface {
	// FindByID retrieves a route by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Route, error)

	// FindAll retrieves every stored route.
	FindAll(ctx context.Context) ([]*Route, error)

	// FindByTransportType retrieves routes served by the given transport type.
	FindByTransportType(ctx context.Context, transportType string) ([]*Route, error)

	// FindByDepartureCity retrieves routes leaving from the given city.
	FindByDepartureCity(ctx context.Context, city string) ([]*Route, error)

	// FindByDestinationCity retrieves routes arriving at the given city.
	FindByDestinationCity(ctx context.Context, city string) ([]*Route, error)

	// FindByCityPair retrieves routes for an exact departure/destination pair.
	FindByCityPair(ctx context.Context, departureCity, destinationCity string) ([]*Route, error)

	// Save persists a new route.
	Save(ctx context.Context, route *Route) error

	// Delete removes a route by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
