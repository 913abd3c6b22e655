package route

import (
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
)

// TimeLayout is the fixed pattern for departure/arrival times on the wire.
const TimeLayout = "2006-01-02 15:04"

// DateLayout is the fixed pattern for search dates on the wire.
const DateLayout = "02.01.2006"

// BookingCutoff is how close to departure a route stops being offered in
// bookable result views.
const BookingCutoff = 30 * time.Minute

// Route is the aggregate root for a scheduled transport departure with
// fixed seat capacity.
type Route struct {
	id              uuid.UUID
	transportType   string
	departureCity   string
	destinationCity string
	departureTime   time.Time
	arrivalTime     time.Time
	totalSeats      int
	availableSeats  int
	createdAt       time.Time
}

// NewRoute creates a Route from wire-format fields, validating every one of
// them. Departure and arrival times use TimeLayout.
func NewRoute(
	transportType, departureCity, destinationCity string,
	departureTime, arrivalTime string,
	totalSeats, availableSeats int,
) (*Route, error) {
	if transportType == "" || departureCity == "" || destinationCity == "" ||
		departureTime == "" || arrivalTime == "" {
		return nil, domain.NewValidationError("all route fields must be filled in")
	}
	if departureCity == destinationCity {
		return nil, domain.NewValidationError("departure and destination points must differ")
	}
	if totalSeats <= 0 {
		return nil, domain.NewValidationError("total seats must be greater than zero")
	}
	if availableSeats < 0 || availableSeats > totalSeats {
		return nil, domain.NewValidationError("available seats must be between 0 and total seats")
	}

	departure, err := time.Parse(TimeLayout, departureTime)
	if err != nil {
		return nil, domain.NewValidationError("invalid time format, use 'yyyy-MM-dd HH:mm'")
	}
	arrival, err := time.Parse(TimeLayout, arrivalTime)
	if err != nil {
		return nil, domain.NewValidationError("invalid time format, use 'yyyy-MM-dd HH:mm'")
	}
	if arrival.Before(departure) {
		return nil, domain.NewValidationError("arrival time cannot be before departure time")
	}

	return &Route{
		id:              uuid.New(),
		transportType:   transportType,
		departureCity:   departureCity,
		destinationCity: destinationCity,
		departureTime:   departure,
		arrivalTime:     arrival,
		totalSeats:      totalSeats,
		availableSeats:  availableSeats,
		createdAt:       time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Route from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	transportType, departureCity, destinationCity string,
	departureTime, arrivalTime time.Time,
	totalSeats, availableSeats int,
	createdAt time.Time,
) *Route {
	return &Route{
		id:              id,
		transportType:   transportType,
		departureCity:   departureCity,
		destinationCity: destinationCity,
		departureTime:   departureTime,
		arrivalTime:     arrivalTime,
		totalSeats:      totalSeats,
		availableSeats:  availableSeats,
		createdAt:       createdAt,
	}
}

// --- Getters ---

func (r *Route) ID() uuid.UUID           { return r.id }
func (r *Route) TransportType() string   { return r.transportType }
func (r *Route) DepartureCity() string   { return r.departureCity }
func (r *Route) DestinationCity() string { return r.destinationCity }
func (r *Route) DepartureTime() time.Time { return r.departureTime }
func (r *Route) ArrivalTime() time.Time  { return r.arrivalTime }
func (r *Route) TotalSeats() int         { return r.totalSeats }
func (r *Route) AvailableSeats() int     { return r.availableSeats }
func (r *Route) CreatedAt() time.Time    { return r.createdAt }

// --- Behavior ---

// DepartsOn reports whether the route departs on the given calendar date,
// ignoring time-of-day.
func (r *Route) DepartsOn(date time.Time) bool {
	y1, m1, d1 := r.departureTime.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DepartsBetween reports whether the route's departure date falls inside the
// inclusive [start, end] calendar-date range.
func (r *Route) DepartsBetween(start, end time.Time) bool {
	d := truncateToDate(r.departureTime)
	return !d.Before(truncateToDate(start)) && !d.After(truncateToDate(end))
}

// IsBookable reports whether the route may still appear in booking-eligible
// result views: departure must be more than BookingCutoff away from now.
func (r *Route) IsBookable(now time.Time) bool {
	return r.departureTime.Sub(now) > BookingCutoff
}

// ParseSearchDate parses a wire-format search date (DateLayout).
func ParseSearchDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date format, use 'dd.MM.yyyy'")
	}
	return d, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
