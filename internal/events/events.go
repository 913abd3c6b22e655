package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicReservationEvents carries all route and booking lifecycle events.
const TopicReservationEvents = "reservation.events"

// Event type identifiers.
const (
	RouteCreated     = "route.created"
	RouteDeleted     = "route.deleted"
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
)

// RouteCreatedEvent is published when a new route is added to the schedule.
type RouteCreatedEvent struct {
	RouteID         uuid.UUID `json:"route_id"`
	TransportType   string    `json:"transport_type"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureTime   time.Time `json:"departure_time"`
	TotalSeats      int       `json:"total_seats"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// RouteDeletedEvent is published when a route is removed.
type RouteDeletedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCreatedEvent is published after a seat was successfully reserved.
type BookingCreatedEvent struct {
	BookingID         uuid.UUID `json:"booking_id"`
	RouteID           uuid.UUID `json:"route_id"`
	PassengerFullName string    `json:"passenger_full_name"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published after a booking was removed and its
// seat credited back.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	RouteID    uuid.UUID `json:"route_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
