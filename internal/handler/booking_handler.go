package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/application"
	"github.com/intercity-transit/service-reservation/internal/domain"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.InventoryService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.InventoryService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking endpoints on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/booking-tickets")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("", h.CreateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.GET("/passenger/:name", h.GetByPassengerName)
		bookings.GET("/route/:id", h.GetByRoute)
		bookings.GET("/route/:id/phone/:phone", h.GetByRouteAndPhone)
	}
}

// ListBookings handles GET /booking-tickets. An empty list is a normal result.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	result, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, result)
}

// GetBooking handles GET /booking-tickets/:id. An absent booking answers
// with empty data rather than 404.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			respondSuccess(c, nil)
			return
		}
		respondError(c, err)
		return
	}
	respondSuccess(c, result)
}

// CreateBooking handles POST /booking-tickets. Every failure of this
// endpoint, including an unknown route, is a caller error.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReserveSeat(c.Request.Context(), req)
	if err != nil {
		if domain.IsNotFound(err) {
			respondBadRequest(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// DeleteBooking handles DELETE /booking-tickets/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid booking ID")
		return
	}
	if err := h.service.ReleaseSeat(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"message": "booking cancelled"})
}

// GetByPassengerName handles GET /booking-tickets/passenger/:name.
func (h *BookingHandler) GetByPassengerName(c *gin.Context) {
	result, err := h.service.GetBookingsByPassengerName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no bookings found for this passenger")
		return
	}
	respondSuccess(c, result)
}

// GetByRoute handles GET /booking-tickets/route/:id.
func (h *BookingHandler) GetByRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}

	result, err := h.service.GetBookingsByRoute(c.Request.Context(), routeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no bookings found for this route")
		return
	}
	respondSuccess(c, result)
}

// GetByRouteAndPhone handles GET /booking-tickets/route/:id/phone/:phone.
func (h *BookingHandler) GetByRouteAndPhone(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}

	result, err := h.service.GetBookingByRouteAndPhone(c.Request.Context(), routeID, c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, result)
}
