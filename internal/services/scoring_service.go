package services

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"saferoute/internal/config"
	"saferoute/internal/domain/entities"
	"saferoute/pkg/utils"
)

var (
	ErrInvalidRoute  = errors.New("route has no waypoints")
	ErrEmptyRouteSet = errors.New("no candidate routes supplied")
)

// ReferenceLookup finds the reference safety record closest to a coordinate.
// *geo.SafetyIndex is the production implementation.
type ReferenceLookup interface {
	Nearest(lat, lon float64) (entities.ReferencePoint, error)
}

// ScoringService scores candidate routes against reference safety data and
// picks the safest one. It holds only the formula weights, so a single value
// is safe to share between concurrent requests.
//
// Go Learning Note — Accept Interfaces:
// Score and SelectSafest take a ReferenceLookup instead of *geo.SafetyIndex.
// The service only needs the Nearest method, and tests can pass a tiny fake
// that returns a fixed ReferencePoint without building a dataset.
type ScoringService struct {
	weights config.ScoringConfig
}

func NewScoringService(cfg *config.Config) *ScoringService {
	return &ScoringService{
		weights: cfg.Scoring,
	}
}

// SafetyScore applies the weighted formula to one reference point and rounds
// the result to two decimals (half away from zero).
func (s *ScoringService) SafetyScore(ref entities.ReferencePoint) float64 {
	w := s.weights
	raw := w.LightingWeight*ref.Lighting +
		w.CrowdWeight*ref.Crowd +
		w.CrimeWeight*(1-ref.CrimeRate) +
		w.PoliceWeight*(1-ref.PoliceDistance)
	return utils.RoundTo2(raw)
}

// Score matches the route's first waypoint to its nearest reference point and
// returns a new ScoredRoute. The input route is not modified. Waypoints are
// expected to be finite WGS84 coordinates (see Location.Validate); Geometry
// is left empty when the path cannot be encoded.
func (s *ScoringService) Score(route entities.Route, index ReferenceLookup) (entities.ScoredRoute, error) {
	start, ok := route.Start()
	if !ok {
		return entities.ScoredRoute{}, fmt.Errorf("%w: %q", ErrInvalidRoute, route.Name)
	}

	ref, err := index.Nearest(start.Latitude, start.Longitude)
	if err != nil {
		return entities.ScoredRoute{}, fmt.Errorf("score route %q: %w", route.Name, err)
	}

	geometry, err := pathGeometry(route.Path)
	if err != nil {
		geometry = nil
	}

	return entities.ScoredRoute{
		Route:       entities.NewRoute(route.Name, route.Path...),
		SafetyScore: s.SafetyScore(ref),
		Nearest:     ref,
		DistanceKm:  PathLengthKm(route.Path),
		Geometry:    geometry,
	}, nil
}

// SelectSafest scores every route and returns the one with the highest score
// together with all scored routes in input order. Equal maxima resolve to the
// earliest route. Any scoring failure aborts the whole selection.
func (s *ScoringService) SelectSafest(routes []entities.Route, index ReferenceLookup) (*entities.SafestRouteResult, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyRouteSet
	}

	all := make([]entities.ScoredRoute, 0, len(routes))
	best := 0
	for i, route := range routes {
		scored, err := s.Score(route, index)
		if err != nil {
			return nil, err
		}
		all = append(all, scored)
		if scored.SafetyScore > all[best].SafetyScore {
			best = i
		}
	}

	return &entities.SafestRouteResult{
		Safest: all[best],
		All:    all,
	}, nil
}

// PathLengthKm sums the great-circle length of consecutive path segments,
// rounded to two decimals.
func PathLengthKm(path []entities.Location) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += utils.HaversineDistance(
			path[i-1].Latitude, path[i-1].Longitude,
			path[i].Latitude, path[i].Longitude,
		)
	}
	return utils.RoundTo2(total)
}

// pathGeometry encodes the path as GeoJSON: a Point for a single waypoint,
// a LineString otherwise. GeoJSON orders coordinates longitude first.
func pathGeometry(path []entities.Location) ([]byte, error) {
	coords := make([]geom.Coord, len(path))
	for i, p := range path {
		coords[i] = geom.Coord{p.Longitude, p.Latitude}
	}

	var g geom.T
	if len(coords) == 1 {
		pt, err := geom.NewPoint(geom.XY).SetCoords(coords[0])
		if err != nil {
			return nil, err
		}
		g = pt
	} else {
		ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
		if err != nil {
			return nil, err
		}
		g = ls
	}
	return geojson.Marshal(g)
}
