package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
)

// TimestampLayout is the fixed pattern for booking timestamps on the wire.
const TimestampLayout = "2006-01-02 15:04:05"

// Booking is the aggregate root for a passenger's reservation against one
// route. It references the route by ID only; a booking's existence implies
// exactly one seat was debited from that route at creation.
type Booking struct {
	id                uuid.UUID
	routeID           uuid.UUID
	passengerFullName string
	passengerPhone    string
	passengerEmail    string
	bookedAt          time.Time
}

// NewBooking creates a Booking after validating passenger contact details.
// Seat availability is not checked here; that belongs to the storage-level
// reservation path.
func NewBooking(routeID uuid.UUID, fullName, phone, email string) (*Booking, error) {
	if routeID == uuid.Nil {
		return nil, domain.NewValidationError("route ID is required")
	}
	if fullName == "" {
		return nil, domain.NewValidationError("passenger full name is required")
	}
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	return &Booking{
		id:                uuid.New(),
		routeID:           routeID,
		passengerFullName: fullName,
		passengerPhone:    phone,
		passengerEmail:    email,
		bookedAt:          time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, routeID uuid.UUID,
	fullName, phone, email string,
	bookedAt time.Time,
) *Booking {
	return &Booking{
		id:                id,
		routeID:           routeID,
		passengerFullName: fullName,
		passengerPhone:    phone,
		passengerEmail:    email,
		bookedAt:          bookedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) RouteID() uuid.UUID        { return b.routeID }
func (b *Booking) PassengerFullName() string { return b.passengerFullName }
func (b *Booking) PassengerPhone() string    { return b.passengerPhone }
func (b *Booking) PassengerEmail() string    { return b.passengerEmail }
func (b *Booking) BookedAt() time.Time       { return b.bookedAt }
