package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	bookingDomain "github.com/intercity-transit/service-reservation/internal/domain/booking"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"github.com/intercity-transit/service-reservation/internal/events"
	"go.uber.org/zap"
)

// CreateBookingRequest carries the fields of a booking request.
type CreateBookingRequest struct {
	RouteID           string `json:"route_id" form:"routeId" binding:"required"`
	PassengerFullName string `json:"passenger_full_name" form:"passengerFullName" binding:"required"`
	PassengerPhone    string `json:"passenger_phone" form:"passengerPhone" binding:"required"`
	PassengerEmail    string `json:"passenger_email" form:"passengerEmail" binding:"required"`
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID                uuid.UUID `json:"id"`
	RouteID           uuid.UUID `json:"route_id"`
	PassengerFullName string    `json:"passenger_full_name"`
	PassengerPhone    string    `json:"passenger_phone"`
	PassengerEmail    string    `json:"passenger_email"`
	BookingTime       string    `json:"booking_time"`
}

// InventoryService is the single authority over seat reservation and
// release. All availability mutation goes through the booking repository's
// transactional Reserve/Release, so the counter invariant holds no matter
// how many requests race on the same route.
type InventoryService struct {
	bookings  bookingDomain.Repository
	routes    routeDomain.Repository
	publisher eventPublisher
	logger    *zap.Logger
}

// NewInventoryService creates an InventoryService. publisher may be nil.
func NewInventoryService(
	bookings bookingDomain.Repository,
	routes routeDomain.Repository,
	publisher eventPublisher,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		bookings:  bookings,
		routes:    routes,
		publisher: publisher,
		logger:    logger,
	}
}

// ReserveSeat validates the passenger details, then atomically debits one
// seat and records the booking. Validation failures surface before any
// mutation; a reservation race on the last seat fails cleanly with a
// no-availability error and leaves the counter untouched.
func (s *InventoryService) ReserveSeat(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, domain.NewValidationError("invalid route ID")
	}

	b, err := bookingDomain.NewBooking(routeID, req.PassengerFullName, req.PassengerPhone, req.PassengerEmail)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Reserve(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCreated, b.ID().String(), events.BookingCreatedEvent{
		BookingID:         b.ID(),
		RouteID:           b.RouteID(),
		PassengerFullName: b.PassengerFullName(),
		OccurredAt:        time.Now().UTC(),
	})
	s.logger.Info("seat reserved",
		zap.String("booking_id", b.ID().String()),
		zap.String("route_id", b.RouteID().String()),
	)

	dto := toBookingDTO(b)
	return &dto, nil
}

// ReleaseSeat atomically credits the seat back to the route and deletes the
// booking. A nonexistent booking fails with a not-found error and changes
// no counters.
func (s *InventoryService) ReleaseSeat(ctx context.Context, bookingID uuid.UUID) error {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.bookings.Release(ctx, bookingID); err != nil {
		return err
	}

	s.publish(ctx, events.BookingCancelled, bookingID.String(), events.BookingCancelledEvent{
		BookingID:  bookingID,
		RouteID:    b.RouteID(),
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info("seat released",
		zap.String("booking_id", bookingID.String()),
		zap.String("route_id", b.RouteID().String()),
	)
	return nil
}

// GetBooking returns a single booking by ID.
func (s *InventoryService) GetBooking(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(b)
	return &dto, nil
}

// ListBookings returns every stored booking.
func (s *InventoryService) ListBookings(ctx context.Context) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetBookingsByPassengerName returns the bookings made under a full name.
func (s *InventoryService) GetBookingsByPassengerName(ctx context.Context, fullName string) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByPassengerName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetBookingsByRoute returns all bookings against a route. The route must exist.
func (s *InventoryService) GetBookingsByRoute(ctx context.Context, routeID uuid.UUID) ([]BookingDTO, error) {
	if _, err := s.routes.FindByID(ctx, routeID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindByRouteID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetBookingByRouteAndPhone finds the booking made against a route under the
// given passenger phone. The phone format is validated first.
func (s *InventoryService) GetBookingByRouteAndPhone(ctx context.Context, routeID uuid.UUID, phone string) (*BookingDTO, error) {
	if err := bookingDomain.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if _, err := s.routes.FindByID(ctx, routeID); err != nil {
		if domain.IsNotFound(err) {
			// A bad route reference in this lookup is a caller mistake, not a
			// missing booking.
			return nil, domain.NewValidationError("route with this ID not found")
		}
		return nil, err
	}
	b, err := s.bookings.FindByRouteAndPhone(ctx, routeID, phone)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(b)
	return &dto, nil
}

func (s *InventoryService) publish(ctx context.Context, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicReservationEvents, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// --- Helpers ---

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                b.ID(),
		RouteID:           b.RouteID(),
		PassengerFullName: b.PassengerFullName(),
		PassengerPhone:    b.PassengerPhone(),
		PassengerEmail:    b.PassengerEmail(),
		BookingTime:       b.BookedAt().Format(bookingDomain.TimestampLayout),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}
