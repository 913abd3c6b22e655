package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/domain"
	bookingDomain "github.com/intercity-transit/service-reservation/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID           uuid.UUID `gorm:"type:uuid;not null;index"`
	PassengerFullName string    `gorm:"type:varchar(200);not null;index"`
	PassengerPhone    string    `gorm:"type:varchar(20);not null"`
	PassengerEmail    string    `gorm:"type:varchar(100);not null"`
	BookedAt          time.Time `gorm:"type:timestamptz;not null"`
}

func (BookingModel) TableName() string { return "bookings" }

// GormBookingRepository implements booking.Repository using GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toBookingDomain(&model), nil
}

func (r *GormBookingRepository) FindAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx))
}

func (r *GormBookingRepository) FindByPassengerName(ctx context.Context, fullName string) ([]*bookingDomain.Booking, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).Where("passenger_full_name = ?", fullName))
}

func (r *GormBookingRepository) FindByRouteID(ctx context.Context, routeID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.findWhere(ctx, r.db.WithContext(ctx).Where("route_id = ?", routeID))
}

func (r *GormBookingRepository) FindByRouteAndPhone(ctx context.Context, routeID uuid.UUID, phone string) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("route_id = ? AND passenger_phone = ?", routeID, phone).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", fmt.Sprintf("route=%s phone=%s", routeID, phone))
		}
		return nil, fmt.Errorf("failed to find booking by route and phone: %w", err)
	}
	return toBookingDomain(&model), nil
}

// Reserve debits one seat and inserts the booking row in a single
// transaction. The seat debit is a conditional UPDATE, so two concurrent
// reservations of the last seat can never both pass: whichever statement
// runs second sees available_seats = 0 and affects no rows.
func (r *GormBookingRepository) Reserve(ctx context.Context, b *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RouteModel{}).
			Where("id = ? AND available_seats > 0", b.RouteID()).
			UpdateColumn("available_seats", gorm.Expr("available_seats - 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to reserve seat: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&RouteModel{}).Where("id = ?", b.RouteID()).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check route existence: %w", err)
			}
			if count == 0 {
				return domain.NewNotFoundError("Route", b.RouteID().String())
			}
			return domain.NewNoAvailabilityError(b.RouteID().String())
		}

		if err := tx.Create(toBookingModel(b)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// Release credits the seat back and deletes the booking row in a single
// transaction. The guard available_seats < total_seats keeps the counter
// from ever exceeding capacity.
func (r *GormBookingRepository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookingModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Booking", id.String())
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		result := tx.Model(&RouteModel{}).
			Where("id = ? AND available_seats < total_seats", model.RouteID).
			UpdateColumn("available_seats", gorm.Expr("available_seats + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to release seat: %w", result.Error)
		}

		if err := tx.Where("id = ?", id).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return nil
	})
}

func (r *GormBookingRepository) findWhere(ctx context.Context, query *gorm.DB) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := query.Order("booked_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toBookingDomain(&m)
	}
	return bookings, nil
}

// --- Conversions ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                b.ID(),
		RouteID:           b.RouteID(),
		PassengerFullName: b.PassengerFullName(),
		PassengerPhone:    b.PassengerPhone(),
		PassengerEmail:    b.PassengerEmail(),
		BookedAt:          b.BookedAt(),
	}
}

func toBookingDomain(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID, m.RouteID,
		m.PassengerFullName, m.PassengerPhone, m.PassengerEmail,
		m.BookedAt,
	)
}
