package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"gorm.io/gorm"
)

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransportType   string    `gorm:"type:varchar(50);not null;index"`
	DepartureCity   string    `gorm:"type:varchar(100);not null;index"`
	DestinationCity string    `gorm:"type:varchar(100);not null;index"`
	DepartureTime   time.Time `gorm:"type:timestamptz;not null;index"`
	ArrivalTime     time.Time `gorm:"type:timestamptz;not null"`
	TotalSeats      int       `gorm:"not null"`
	AvailableSeats  int       `gorm:"not null;check:available_seats >= 0 AND available_seats <= total_seats"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null"`
}

func (RouteModel) TableName() string { return "routes" }

// GormRouteRepository implements route.Repository using GORM.
type GormRouteRepository struct {
	db *gorm.DB
}

func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

func (r *GormRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*routeDomain.Route, error) {
	var model RouteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", id.String())
		}
		return nil, fmt.Errorf("failed to find route by ID: %w", err)
	}
	return toRouteDomain(&model), nil
}

func (r *GormRouteRepository) FindAll(ctx context.Context) ([]*routeDomain.Route, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx))
}

func (r *GormRouteRepository) FindByTransportType(ctx context.Context, transportType string) ([]*routeDomain.Route, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).Where("transport_type = ?", transportType))
}

func (r *GormRouteRepository) FindByDepartureCity(ctx context.Context, city string) ([]*routeDomain.Route, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).Where("departure_city = ?", city))
}

func (r *GormRouteRepository) FindByDestinationCity(ctx context.Context, city string) ([]*routeDomain.Route, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).Where("destination_city = ?", city))
}

func (r *GormRouteRepository) FindByCityPair(ctx context.Context, departureCity, destinationCity string) ([]*routeDomain.Route, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).
		Where("departure_city = ? AND destination_city = ?", departureCity, destinationCity))
}

func (r *GormRouteRepository) Save(ctx context.Context, route *routeDomain.Route) error {
	model := toRouteModel(route)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save route: %w", err)
	}
	return nil
}

func (r *GormRouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RouteModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete route: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Route", id.String())
	}
	return nil
}

func (r *GormRouteRepository) findWhere(ctx context.Context, query *gorm.DB) ([]*routeDomain.Route, error) {
	var models []RouteModel
	if err := query.Order("departure_time ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	routes := make([]*routeDomain.Route, len(models))
	for i, m := range models {
		routes[i] = toRouteDomain(&m)
	}
	return routes, nil
}

// --- Conversions ---

func toRouteModel(r *routeDomain.Route) *RouteModel {
	return &RouteModel{
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

func toRouteDomain(m *RouteModel) *routeDomain.Route {
	return routeDomain.Reconstruct(
		m.ID,
		m.TransportType, m.DepartureCity, m.DestinationCity,
		m.DepartureTime, m.ArrivalTime,
		m.TotalSeats, m.AvailableSeats,
		m.CreatedAt,
	)
}
