package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"github.com/intercity-transit/service-reservation/internal/events"
	"go.uber.org/zap"
)

// eventPublisher is the slice of the Kafka producer the services need.
type eventPublisher interface {
	Publish(ctx context.Context, topic, eventType, key string, data interface{}) error
}

// routeCache is the slice of the redis cache the search path needs.
type routeCache interface {
	GetUniverse(ctx context.Context) ([]*routeDomain.Route, bool)
	SetUniverse(ctx context.Context, routes []*routeDomain.Route)
	Invalidate(ctx context.Context)
}

// CreateRouteRequest carries the form fields of a route-creation request.
type CreateRouteRequest struct {
	TransportType   string `form:"transportType" binding:"required"`
	DepartureCity   string `form:"departureCity" binding:"required"`
	DestinationCity string `form:"destinationCity" binding:"required"`
	DepartureTime   string `form:"departureTime" binding:"required"`
	ArrivalTime     string `form:"arrivalTime" binding:"required"`
	TotalSeats      int    `form:"totalNumberSeats" binding:"required"`
	AvailableSeats  int    `form:"numberAvailableSeats"`
}

// SearchRoutesRequest carries the optional filters of a search request.
// Dates use the dd.MM.yyyy wire format.
type SearchRoutesRequest struct {
	TransportType   string `form:"transportType"`
	DepartureCity   string `form:"departureCity"`
	DestinationCity string `form:"destinationCity"`
	ExactDate       string `form:"exactDate"`
	StartDate       string `form:"startDate"`
	EndDate         string `form:"endDate"`
}

// RouteDTO is the API representation of a route.
type RouteDTO struct {
	ID              uuid.UUID `json:"id"`
	TransportType   string    `json:"transport_type"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureTime   string    `json:"departure_time"`
	ArrivalTime     string    `json:"arrival_time"`
	TotalSeats      int       `json:"total_number_seats"`
	AvailableSeats  int       `json:"number_available_seats"`
}

// RouteService implements route management, single-predicate queries and the
// multi-filter search.
type RouteService struct {
	repo      routeDomain.Repository
	cache     routeCache
	publisher eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRouteService creates a RouteService. cache and publisher may be nil
// when those collaborators are not wired (tests, degraded startup).
func NewRouteService(
	repo routeDomain.Repository,
	cache routeCache,
	publisher eventPublisher,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateRoute validates the request and persists a new route.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*RouteDTO, error) {
	r, err := routeDomain.NewRoute(
		req.TransportType, req.DepartureCity, req.DestinationCity,
		req.DepartureTime, req.ArrivalTime,
		req.TotalSeats, req.AvailableSeats,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		s.logger.Error("failed to create route", zap.Error(err))
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	s.invalidateCache(ctx)
	s.publish(ctx, events.RouteCreated, r.ID().String(), events.RouteCreatedEvent{
		RouteID:         r.ID(),
		TransportType:   r.TransportType(),
		DepartureCity:   r.DepartureCity(),
		DestinationCity: r.DestinationCity(),
		DepartureTime:   r.DepartureTime(),
		TotalSeats:      r.TotalSeats(),
		OccurredAt:      time.Now().UTC(),
	})

	s.logger.Info("route created",
		zap.String("route_id", r.ID().String()),
		zap.String("departure_city", r.DepartureCity()),
		zap.String("destination_city", r.DestinationCity()),
	)
	dto := toRouteDTO(r)
	return &dto, nil
}

// DeleteRoute removes a route by ID.
func (s *RouteService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	s.publish(ctx, events.RouteDeleted, id.String(), events.RouteDeletedEvent{
		RouteID:    id,
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info("route deleted", zap.String("route_id", id.String()))
	return nil
}

// GetRoute returns a single route by ID.
func (s *RouteService) GetRoute(ctx context.Context, id uuid.UUID) (*RouteDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toRouteDTO(r)
	return &dto, nil
}

// ListRoutes returns every stored route.
func (s *RouteService) ListRoutes(ctx context.Context) ([]RouteDTO, error) {
	routes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toRouteDTOs(routes), nil
}

// GetRoutesByTransportType returns routes served by the given transport type.
func (s *RouteService) GetRoutesByTransportType(ctx context.Context, transportType string) ([]RouteDTO, error) {
	routes, err := s.repo.FindByTransportType(ctx, transportType)
	if err != nil {
		return nil, err
	}
	return toRouteDTOs(routes), nil
}

// GetRoutesByDepartureCity returns routes leaving from the given city.
func (s *RouteService) GetRoutesByDepartureCity(ctx context.Context, city string) ([]RouteDTO, error) {
	routes, err := s.repo.FindByDepartureCity(ctx, city)
	if err != nil {
		return nil, err
	}
	return toRouteDTOs(routes), nil
}

// GetRoutesByDestinationCity returns routes arriving at the given city.
func (s *RouteService) GetRoutesByDestinationCity(ctx context.Context, city string) ([]RouteDTO, error) {
	routes, err := s.repo.FindByDestinationCity(ctx, city)
	if err != nil {
		return nil, err
	}
	return toRouteDTOs(routes), nil
}

// GetRoutesByCityPair returns routes for an exact departure/destination pair.
func (s *RouteService) GetRoutesByCityPair(ctx context.Context, departureCity, destinationCity string) ([]RouteDTO, error) {
	if departureCity == "" || destinationCity == "" {
		return nil, domain.NewValidationError("both departure and destination points are required")
	}
	routes, err := s.repo.FindByCityPair(ctx, departureCity, destinationCity)
	if err != nil {
		return nil, err
	}
	return toRouteDTOs(routes), nil
}

// GetRoutesForExactDate returns routes departing on the given calendar date
// (dd.MM.yyyy), ignoring time-of-day. A malformed date is a validation
// error, never an empty result.
func (s *RouteService) GetRoutesForExactDate(ctx context.Context, exactDate string) ([]RouteDTO, error) {
	date, err := routeDomain.ParseSearchDate(exactDate)
	if err != nil {
		return nil, err
	}

	routes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*routeDomain.Route, 0, len(routes))
	for _, r := range routes {
		if r.DepartsOn(date) {
			matched = append(matched, r)
		}
	}
	return toRouteDTOs(matched), nil
}

// GetRoutesWithinDateRange returns routes whose departure date falls inside
// the inclusive [startDate, endDate] range (dd.MM.yyyy).
func (s *RouteService) GetRoutesWithinDateRange(ctx context.Context, startDate, endDate string) ([]RouteDTO, error) {
	start, err := routeDomain.ParseSearchDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := routeDomain.ParseSearchDate(endDate)
	if err != nil {
		return nil, err
	}

	routes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*routeDomain.Route, 0, len(routes))
	for _, r := range routes {
		if r.DepartsBetween(start, end) {
			matched = append(matched, r)
		}
	}
	return toRouteDTOs(matched), nil
}

// SearchRoutes returns routes matching all supplied filters. Each filter is
// evaluated independently and the results are combined with the counting
// intersection; the booking cutoff is then applied to the combined set, with
// or without filters.
func (s *RouteService) SearchRoutes(ctx context.Context, req SearchRoutesRequest) ([]RouteDTO, error) {
	criteria, err := s.buildCriteria(req)
	if err != nil {
		return nil, err
	}

	universe, err := s.loadUniverse(ctx)
	if err != nil {
		return nil, err
	}

	counter := routeDomain.NewMatchCounter(universe)

	if criteria.TransportType != "" {
		subset, err := s.repo.FindByTransportType(ctx, criteria.TransportType)
		if err != nil {
			return nil, err
		}
		counter.AddSubset(subset)
	}
	if criteria.DepartureCity != "" {
		subset, err := s.repo.FindByDepartureCity(ctx, criteria.DepartureCity)
		if err != nil {
			return nil, err
		}
		counter.AddSubset(subset)
	}
	if criteria.DestinationCity != "" {
		subset, err := s.repo.FindByDestinationCity(ctx, criteria.DestinationCity)
		if err != nil {
			return nil, err
		}
		counter.AddSubset(subset)
	}
	if criteria.ExactDate != nil {
		subset := make([]*routeDomain.Route, 0, len(universe))
		for _, r := range universe {
			if r.DepartsOn(*criteria.ExactDate) {
				subset = append(subset, r)
			}
		}
		counter.AddSubset(subset)
	}
	if criteria.RangeStart != nil && criteria.RangeEnd != nil {
		subset := make([]*routeDomain.Route, 0, len(universe))
		for _, r := range universe {
			if r.DepartsBetween(*criteria.RangeStart, *criteria.RangeEnd) {
				subset = append(subset, r)
			}
		}
		counter.AddSubset(subset)
	}

	matched := counter.Matching(universe, criteria.ActiveFilterCount())
	bookable := routeDomain.FilterBookable(matched, s.now())
	return toRouteDTOs(bookable), nil
}

func (s *RouteService) buildCriteria(req SearchRoutesRequest) (routeDomain.SearchCriteria, error) {
	criteria := routeDomain.SearchCriteria{
		TransportType:   req.TransportType,
		DepartureCity:   req.DepartureCity,
		DestinationCity: req.DestinationCity,
	}

	if req.ExactDate != "" {
		date, err := routeDomain.ParseSearchDate(req.ExactDate)
		if err != nil {
			return routeDomain.SearchCriteria{}, err
		}
		criteria.ExactDate = &date
	}
	if req.StartDate != "" || req.EndDate != "" {
		if req.StartDate == "" || req.EndDate == "" {
			return routeDomain.SearchCriteria{}, domain.NewValidationError("date range requires both startDate and endDate")
		}
		start, err := routeDomain.ParseSearchDate(req.StartDate)
		if err != nil {
			return routeDomain.SearchCriteria{}, err
		}
		end, err := routeDomain.ParseSearchDate(req.EndDate)
		if err != nil {
			return routeDomain.SearchCriteria{}, err
		}
		criteria.RangeStart = &start
		criteria.RangeEnd = &end
	}
	return criteria, nil
}

// loadUniverse reads the full route set, preferring the cache snapshot.
func (s *RouteService) loadUniverse(ctx context.Context) ([]*routeDomain.Route, error) {
	if s.cache != nil {
		if routes, ok := s.cache.GetUniverse(ctx); ok {
			return routes, nil
		}
	}
	routes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetUniverse(ctx, routes)
	}
	return routes, nil
}

func (s *RouteService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *RouteService) publish(ctx context.Context, eventType, key string, data interface{}) {
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

func toRouteDTO(r *routeDomain.Route) RouteDTO {
	return RouteDTO{
		ID:              r.ID(),
		TransportType:   r.TransportType(),
		DepartureCity:   r.DepartureCity(),
		DestinationCity: r.DestinationCity(),
		DepartureTime:   r.DepartureTime().Format(routeDomain.TimeLayout),
		ArrivalTime:     r.ArrivalTime().Format(routeDomain.TimeLayout),
		TotalSeats:      r.TotalSeats(),
		AvailableSeats:  r.AvailableSeats(),
	}
}

func toRouteDTOs(routes []*routeDomain.Route) []RouteDTO {
	dtos := make([]RouteDTO, len(routes))
	for i, r := range routes {
		dtos[i] = toRouteDTO(r)
	}
	return dtos
}
