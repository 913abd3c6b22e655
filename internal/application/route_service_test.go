package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intercity-transit/service-reservation/internal/domain"
	routeDomain "github.com/intercity-transit/service-reservation/internal/domain/route"
	"github.com/intercity-transit/service-reservation/internal/repository"
)

// recordingCache is an in-memory routeCache that records invalidations.
type recordingCache struct {
	universe      []*routeDomain.Route
	invalidations int
	sets          int
}

func (c *recordingCache) GetUniverse(context.Context) ([]*routeDomain.Route, bool) {
	if c.universe == nil {
		return nil, false
	}
	return c.universe, true
}

func (c *recordingCache) SetUniverse(_ context.Context, routes []*routeDomain.Route) {
	c.universe = routes
	c.sets++
}

func (c *recordingCache) Invalidate(context.Context) {
	c.universe = nil
	c.invalidations++
}

func setupRoutes(t *testing.T) (*RouteService, *repository.MemoryRouteRepository) {
	t.Helper()
	repo := repository.NewMemoryRouteRepository()
	return NewRouteService(repo, nil, nil, zap.NewNop()), repo
}

func createRoute(t *testing.T, svc *RouteService, transportType, departureCity, destinationCity, departureTime, arrivalTime string) *RouteDTO {
	t.Helper()
	dto, err := svc.CreateRoute(context.Background(), CreateRouteRequest{
		TransportType:   transportType,
		DepartureCity:   departureCity,
		DestinationCity: destinationCity,
		DepartureTime:   departureTime,
		ArrivalTime:     arrivalTime,
		TotalSeats:      40,
		AvailableSeats:  40,
	})
	require.NoError(t, err)
	return dto
}

// fixedNow pins the service clock so cutoff behavior is deterministic.
func fixedNow(svc *RouteService, at time.Time) {
	svc.now = func() time.Time { return at }
}

func TestCreateRoute(t *testing.T) {
	svc, _ := setupRoutes(t)

	dto := createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	assert.Equal(t, "Автобус", dto.TransportType)
	assert.Equal(t, "2030-09-10 08:30", dto.DepartureTime)
	assert.Equal(t, 40, dto.TotalSeats)

	fetched, err := svc.GetRoute(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, fetched.ID)
}

func TestCreateRoute_Invalid(t *testing.T) {
	svc, _ := setupRoutes(t)

	_, err := svc.CreateRoute(context.Background(), CreateRouteRequest{
		TransportType:   "Автобус",
		DepartureCity:   "Москва",
		DestinationCity: "Тверь",
		DepartureTime:   "10.09.2030 08:30",
		ArrivalTime:     "2030-09-10 11:45",
		TotalSeats:      40,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteRoute_Unknown(t *testing.T) {
	svc, _ := setupRoutes(t)

	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	err := svc.DeleteRoute(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetRoutesByCityPair_RequiresBothPoints(t *testing.T) {
	svc, _ := setupRoutes(t)

	_, err := svc.GetRoutesByCityPair(context.Background(), "Москва", "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestGetRoutesForExactDate(t *testing.T) {
	svc, _ := setupRoutes(t)
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-11 08:30", "2030-09-11 11:45")

	matched, err := svc.GetRoutesForExactDate(context.Background(), "10.09.2030")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "2030-09-10 08:30", matched[0].DepartureTime)

	_, err = svc.GetRoutesForExactDate(context.Background(), "2030-09-10")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestGetRoutesWithinDateRange(t *testing.T) {
	svc, _ := setupRoutes(t)
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-05 08:30", "2030-09-05 11:45")
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-20 08:30", "2030-09-20 11:45")

	matched, err := svc.GetRoutesWithinDateRange(context.Background(), "06.09.2030", "10.09.2030")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "2030-09-10 08:30", matched[0].DepartureTime)
}

func TestSearchRoutes_Intersection(t *testing.T) {
	svc, _ := setupRoutes(t)
	fixedNow(svc, time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC))

	busMoscow := createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Автобус", "Казань", "Самара", "2030-09-10 09:00", "2030-09-10 13:00")
	createRoute(t, svc, "Поезд", "Москва", "Казань", "2030-09-10 10:00", "2030-09-10 22:00")

	matched, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{
		TransportType: "Автобус",
		DepartureCity: "Москва",
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, busMoscow.ID, matched[0].ID)
}

func TestSearchRoutes_NoFiltersReturnsAllBookable(t *testing.T) {
	svc, _ := setupRoutes(t)
	fixedNow(svc, time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC))

	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Поезд", "Казань", "Самара", "2030-09-11 09:00", "2030-09-11 13:00")

	matched, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{})
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestSearchRoutes_UnmatchedFilterYieldsEmpty(t *testing.T) {
	svc, _ := setupRoutes(t)
	fixedNow(svc, time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC))

	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")

	matched, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{
		TransportType: "Самолёт",
		DepartureCity: "Москва",
	})
	require.NoError(t, err)
	assert.Empty(t, matched, "an empty filter subset must not be bypassed by the other filters")
}

func TestSearchRoutes_AppliesBookingCutoff(t *testing.T) {
	svc, _ := setupRoutes(t)

	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 09:30", "2030-09-10 12:45")
	fixedNow(svc, time.Date(2030, 9, 10, 8, 10, 0, 0, time.UTC)) // 20 min before the first departure

	matched, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{
		DepartureCity: "Москва",
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "2030-09-10 09:30", matched[0].DepartureTime)
}

func TestSearchRoutes_DateRangeFilter(t *testing.T) {
	svc, _ := setupRoutes(t)
	fixedNow(svc, time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC))

	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-20 08:30", "2030-09-20 11:45")

	matched, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{
		DepartureCity: "Москва",
		StartDate:     "09.09.2030",
		EndDate:       "11.09.2030",
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "2030-09-10 08:30", matched[0].DepartureTime)
}

func TestSearchRoutes_HalfOpenRangeRejected(t *testing.T) {
	svc, _ := setupRoutes(t)

	_, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{StartDate: "09.09.2030"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSearchRoutes_CacheAside(t *testing.T) {
	repo := repository.NewMemoryRouteRepository()
	cache := &recordingCache{}
	svc := NewRouteService(repo, cache, nil, zap.NewNop())
	fixedNow(svc, time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC))

	created := createRoute(t, svc, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", "2030-09-10 11:45")
	assert.Equal(t, 1, cache.invalidations, "route creation invalidates the snapshot")

	_, err := svc.SearchRoutes(context.Background(), SearchRoutesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "a miss repopulates the snapshot")

	_, err = svc.SearchRoutes(context.Background(), SearchRoutesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "the second search is served from the snapshot")

	require.NoError(t, svc.DeleteRoute(context.Background(), created.ID))
	assert.Equal(t, 2, cache.invalidations)
}
