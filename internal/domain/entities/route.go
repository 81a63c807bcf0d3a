package entities

import "encoding/json"

// Route is a named candidate path between two places. Path holds the
// waypoints in travel order; the scorer only looks at the first one.
type Route struct {
	Name string     `json:"name"`
	Path []Location `json:"path"`
}

// NewRoute creates a Route. The path slice is copied so the route never
// aliases the caller's backing array.
func NewRoute(name string, path ...Location) Route {
	p := make([]Location, len(path))
	copy(p, path)
	return Route{Name: name, Path: p}
}

// Start returns the first waypoint. ok is false for an empty path.
func (r Route) Start() (loc Location, ok bool) {
	if len(r.Path) == 0 {
		return Location{}, false
	}
	return r.Path[0], true
}

// ScoredRoute is a Route annotated with its safety score. It is built once by
// the scoring service and never updated afterwards.
//
// Nearest is the reference record the score was derived from. DistanceKm and
// Geometry describe the path itself and do not influence the score.
//
// Go Learning Note — Struct Embedding:
// Embedding Route (rather than a named field) promotes Name and Path onto
// ScoredRoute, so scored.Name works directly and encoding/json flattens the
// embedded fields into the same JSON object.
type ScoredRoute struct {
	Route
	SafetyScore float64         `json:"safety_score"`
	Nearest     ReferencePoint  `json:"nearest"`
	DistanceKm  float64         `json:"distance_km"`
	Geometry    json.RawMessage `json:"geometry,omitempty"`
}

// SafestRouteResult is the outcome of one selection: the winning route and
// every scored candidate in input order.
type SafestRouteResult struct {
	Safest ScoredRoute   `json:"safest_route"`
	All    []ScoredRoute `json:"all_routes"`
}
