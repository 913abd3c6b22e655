//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/intercity-transit/service-reservation/internal/application"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"github.com/intercity-transit/service-reservation/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// reservationStack holds wired-up services over a real database.
type reservationStack struct {
	Routes    *application.RouteService
	Inventory *application.InventoryService
	RouteRepo *repository.GormRouteRepository
}

// setupPostgres starts a PostgreSQL testcontainer and returns a connected GORM DB.
func setupPostgres(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_reservation",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_reservation sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.RouteModel{}, &repository.BookingModel{}))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{DB: db, Cleanup: cleanup}
}

// setupStack wires the services over the containerized database. Events and
// cache stay unwired; the reservation path does not depend on them.
func setupStack(t *testing.T, db *gorm.DB) *reservationStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	routeRepo := repository.NewGormRouteRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	return &reservationStack{
		Routes:    application.NewRouteService(routeRepo, nil, nil, logger),
		Inventory: application.NewInventoryService(bookingRepo, routeRepo, nil, logger),
		RouteRepo: routeRepo,
	}
}

// seedRoute inserts a route with the given seat counters.
func seedRoute(t *testing.T, stack *reservationStack, availableSeats int) uuid.UUID {
	t.Helper()
	r, err := routeDomain.NewRoute("Автобус", "Москва", "Тверь",
		"2030-09-10 08:30", "2030-09-10 11:45", 40, availableSeats)
	require.NoError(t, err)
	require.NoError(t, stack.RouteRepo.Save(context.Background(), r))
	return r.ID()
}

// seedRouteWith inserts a route with the given itinerary for search tests.
func seedRouteWith(t *testing.T, stack *reservationStack, transportType, departureCity, destinationCity, departureTime string) uuid.UUID {
	t.Helper()
	r, err := routeDomain.NewRoute(transportType, departureCity, destinationCity,
		departureTime, "2030-12-31 23:59", 40, 40)
	require.NoError(t, err)
	require.NoError(t, stack.RouteRepo.Save(context.Background(), r))
	return r.ID()
}

// currentSeats reads the availability counter straight from the database.
func currentSeats(t *testing.T, db *gorm.DB, routeID uuid.UUID) int {
	t.Helper()
	var model repository.RouteModel
	require.NoError(t, db.Where("id = ?", routeID).First(&model).Error)
	return model.AvailableSeats
}

// bookingRequest builds a valid reservation request with a distinct phone
// per passenger index.
func bookingRequest(routeID uuid.UUID, passenger int) application.CreateBookingRequest {
	return application.CreateBookingRequest{
		RouteID:           routeID.String(),
		PassengerFullName: fmt.Sprintf("Пассажир %d", passenger),
		PassengerPhone:    fmt.Sprintf("+7 904 %03d-00-00", passenger%1000),
		PassengerEmail:    "ivan@mail.ru",
	}
}
