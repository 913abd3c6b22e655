package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBody(routeID uuid.UUID) string {
	return fmt.Sprintf(`{
		"route_id": %q,
		"passenger_full_name": "Иванов Иван Иванович",
		"passenger_phone": "+7 904 123-45-67",
		"passenger_email": "ivan@mail.ru"
	}`, routeID)
}

func createBooking(t *testing.T, s *testServer, routeID uuid.UUID) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, "/booking-tickets", bookingBody(routeID), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestListBookings_EmptyIsOK(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/booking-tickets")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestCreateBooking(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)

	bookingID := createBooking(t, s, r.ID())
	assert.NotEqual(t, uuid.Nil, bookingID)

	seats, err := s.routes.FindByID(context.Background(), r.ID())
	require.NoError(t, err)
	assert.Equal(t, 39, seats.AvailableSeats())
}

func TestCreateBooking_UnknownRouteIs400(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/booking-tickets", bookingBody(uuid.New()), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_InvalidPhone(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)

	body := fmt.Sprintf(`{
		"route_id": %q,
		"passenger_full_name": "Иванов Иван",
		"passenger_phone": "12345",
		"passenger_email": "ivan@mail.ru"
	}`, r.ID())
	w := s.do(t, http.MethodPost, "/booking-tickets", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "validation_error", resp.Error.Code)
}

func TestCreateBooking_SoldOut(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 1)

	createBooking(t, s, r.ID())

	body := fmt.Sprintf(`{
		"route_id": %q,
		"passenger_full_name": "Петров Пётр",
		"passenger_phone": "+7 904 765-43-21",
		"passenger_email": "petr@yandex.ru"
	}`, r.ID())
	w := s.do(t, http.MethodPost, "/booking-tickets", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "no_availability", resp.Error.Code)
}

func TestGetBooking_AbsentAnswersEmptyData(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/booking-tickets/74a147ee-5f26-4746-a618-e61b9a34b0ce")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestDeleteBooking_RestoresSeat(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)
	bookingID := createBooking(t, s, r.ID())

	w := s.do(t, http.MethodDelete, "/booking-tickets/"+bookingID.String(), "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	seats, err := s.routes.FindByID(context.Background(), r.ID())
	require.NoError(t, err)
	assert.Equal(t, 40, seats.AvailableSeats())
}

func TestDeleteBooking_UnknownIs404(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/booking-tickets/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByPassengerName(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)
	createBooking(t, s, r.ID())

	w := s.get(t, "/booking-tickets/passenger/"+url.PathEscape("Иванов Иван Иванович"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.get(t, "/booking-tickets/passenger/"+url.PathEscape("Сидоров Сидор"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByRoute(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)
	createBooking(t, s, r.ID())

	w := s.get(t, "/booking-tickets/route/"+r.ID().String())
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.get(t, "/booking-tickets/route/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code, "the route itself must exist")
}

func TestGetByRouteAndPhone(t *testing.T) {
	s := newTestServer(t)
	r := s.seedRoute(t, "Автобус", "Москва", "Тверь", "2030-09-10 08:30", 40)
	createBooking(t, s, r.ID())

	w := s.get(t, "/booking-tickets/route/"+r.ID().String()+"/phone/"+url.PathEscape("+7 904 123-45-67"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.get(t, "/booking-tickets/route/"+r.ID().String()+"/phone/12345")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.get(t, "/booking-tickets/route/"+uuid.NewString()+"/phone/"+url.PathEscape("+7 904 123-45-67"))
	assert.Equal(t, http.StatusBadRequest, w.Code, "an unknown route in this lookup is a caller mistake")
}
