package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intercity-transit/service-reservation/internal/application"
)

// RouteHandler handles HTTP requests for route operations.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers all route endpoints on the given router group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	routes := r.Group("/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.GET("/transport/:type", h.GetByTransportType)
		routes.GET("/points", h.GetByCityPair)
		routes.GET("/departure/:city", h.GetByDepartureCity)
		routes.GET("/destination/:city", h.GetByDestinationCity)
		routes.GET("/exactDate", h.GetByExactDate)
		routes.GET("/dateRange", h.GetByDateRange)
		routes.GET("/search", h.Search)
		routes.POST("", h.CreateRoute)
		routes.DELETE("/:id", h.DeleteRoute)
	}
}

// ListRoutes handles GET /routes.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	result, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found")
		return
	}
	respondSuccess(c, result)
}

// GetRoute handles GET /routes/:id.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}
	result, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, result)
}

// GetByTransportType handles GET /routes/transport/:type.
func (h *RouteHandler) GetByTransportType(c *gin.Context) {
	result, err := h.service.GetRoutesByTransportType(c.Request.Context(), c.Param("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found for this transport type")
		return
	}
	respondSuccess(c, result)
}

// GetByCityPair handles GET /routes/points?departurepoint=&destinationpoint=.
func (h *RouteHandler) GetByCityPair(c *gin.Context) {
	departure := c.Query("departurepoint")
	destination := c.Query("destinationpoint")

	result, err := h.service.GetRoutesByCityPair(c.Request.Context(), departure, destination)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found for these points")
		return
	}
	respondSuccess(c, result)
}

// GetByDepartureCity handles GET /routes/departure/:city.
func (h *RouteHandler) GetByDepartureCity(c *gin.Context) {
	result, err := h.service.GetRoutesByDepartureCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found from this departure point")
		return
	}
	respondSuccess(c, result)
}

// GetByDestinationCity handles GET /routes/destination/:city.
func (h *RouteHandler) GetByDestinationCity(c *gin.Context) {
	result, err := h.service.GetRoutesByDestinationCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found to this destination point")
		return
	}
	respondSuccess(c, result)
}

// GetByExactDate handles GET /routes/exactDate?exactDate=dd.MM.yyyy.
func (h *RouteHandler) GetByExactDate(c *gin.Context) {
	result, err := h.service.GetRoutesForExactDate(c.Request.Context(), c.Query("exactDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found for this date")
		return
	}
	respondSuccess(c, result)
}

// GetByDateRange handles GET /routes/dateRange?startDate=&endDate=.
func (h *RouteHandler) GetByDateRange(c *gin.Context) {
	result, err := h.service.GetRoutesWithinDateRange(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes found in this date range")
		return
	}
	respondSuccess(c, result)
}

// Search handles GET /routes/search with any combination of filters.
func (h *RouteHandler) Search(c *gin.Context) {
	var req application.SearchRoutesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchRoutes(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(result) == 0 {
		respondNotFound(c, "no routes match the selected filters")
		return
	}
	respondSuccess(c, result)
}

// CreateRoute handles POST /routes (form fields).
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req application.CreateRouteRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoute(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// DeleteRoute handles DELETE /routes/:id.
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}
	if err := h.service.DeleteRoute(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"message": "route deleted"})
}
