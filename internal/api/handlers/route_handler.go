package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"saferoute/internal/domain/entities"
	"saferoute/internal/geo"
	"saferoute/internal/geocode"
	"saferoute/internal/services"
)

// InvalidLocationMessage is shown when a place name cannot be resolved.
const InvalidLocationMessage = "Invalid location entered! Please try again."

type RouteHandler struct {
	routeService *services.RouteService
	index        *geo.SafetyIndex
}

func NewRouteHandler(routeService *services.RouteService, index *geo.SafetyIndex) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
		index:        index,
	}
}

type SafestRouteRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// LocationRequest uses pointers so that an explicit 0 coordinate passes the
// required check while an absent field does not.
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

type RouteRequest struct {
	Name string            `json:"name"`
	Path []LocationRequest `json:"path" binding:"dive"`
}

type ScoreRoutesRequest struct {
	Routes []RouteRequest `json:"routes" binding:"dive"`
}

// Health handles GET /health
func (h *RouteHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"reference_points": h.index.Len(),
	})
}

// GetSafestRoute handles POST /get_safest_route
func (h *RouteHandler) GetSafestRoute(c *gin.Context) {
	var req SafestRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.routeService.FindSafestRoute(c.Request.Context(), req.Start, req.End)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScoreRoutes handles POST /routes/score
func (h *RouteHandler) ScoreRoutes(c *gin.Context) {
	var req ScoreRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routes := make([]entities.Route, len(req.Routes))
	for i, r := range req.Routes {
		path := make([]entities.Location, len(r.Path))
		for j, p := range r.Path {
			path[j] = entities.NewLocation(*p.Lat, *p.Lng)
		}
		routes[i] = entities.Route{Name: r.Name, Path: path}
	}

	result, err := h.routeService.ScoreRoutes(routes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// NearestReference handles GET /debug/nearest?lat=..&lng=..
func (h *RouteHandler) NearestReference(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters must be numbers"})
		return
	}

	ref, err := h.routeService.NearestReference(entities.NewLocation(lat, lng))
	if err != nil {
		writeError(c, err)
		return
	}

	cellLat, cellLng := geo.Decode(ref.Geohash)
	c.JSON(http.StatusOK, gin.H{
		"reference": ref,
		"cell_center": gin.H{
			"lat": cellLat,
			"lng": cellLng,
		},
	})
}

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocode.ErrLocationNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": InvalidLocationMessage})
	case errors.Is(err, services.ErrGeocodingFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding service unavailable"})
	case errors.Is(err, services.ErrMissingLocation),
		errors.Is(err, services.ErrEmptyRouteSet),
		errors.Is(err, services.ErrInvalidRoute),
		errors.Is(err, entities.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, geo.ErrEmptyIndex):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no reference safety data loaded"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
