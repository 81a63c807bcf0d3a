package services

import "saferoute/internal/domain/entities"

// Candidate route names, in the order GenerateRoutes returns them.
const (
	RouteA = "Route A"
	RouteB = "Route B"
	RouteC = "Route C"
)

// GenerateRoutes builds three placeholder candidates between start and end by
// nudging the endpoints with a constant degree offset:
//
//	Route A: start → end
//	Route B: start shifted north → end shifted east
//	Route C: start shifted east → end shifted north
//
// There is no road network behind these paths.
func GenerateRoutes(start, end entities.Location, offset float64) []entities.Route {
	return []entities.Route{
		entities.NewRoute(RouteA, start, end),
		entities.NewRoute(RouteB, start.Offset(offset, 0), end.Offset(0, offset)),
		entities.NewRoute(RouteC, start.Offset(0, offset), end.Offset(offset, 0)),
	}
}
