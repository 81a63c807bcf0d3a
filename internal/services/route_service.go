package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"saferoute/internal/config"
	"saferoute/internal/domain/entities"
)

var (
	ErrMissingLocation = errors.New("start and end locations are required")
	ErrGeocodingFailed = errors.New("geocoding failed")
)

// Geocoder resolves a free-text place name to coordinates. A failed lookup is
// always reported through the error; (0,0) is a valid result.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (entities.Location, error)
}

// RouteService turns a pair of place names into a safest-route answer:
// geocode both ends, generate candidates, and hand them to the scorer.
type RouteService struct {
	geocoder Geocoder
	scorer   *ScoringService
	index    ReferenceLookup
	offset   float64
	log      logrus.FieldLogger
}

func NewRouteService(
	geocoder Geocoder,
	scorer *ScoringService,
	index ReferenceLookup,
	cfg *config.Config,
	log logrus.FieldLogger,
) *RouteService {
	return &RouteService{
		geocoder: geocoder,
		scorer:   scorer,
		index:    index,
		offset:   cfg.Routing.OffsetDegrees,
		log:      log,
	}
}

// FindSafestRoute geocodes start and end, generates the candidate routes and
// selects the safest. Geocoder failures are wrapped with ErrGeocodingFailed
// and keep the underlying cause for errors.Is.
func (s *RouteService) FindSafestRoute(ctx context.Context, startName, endName string) (*entities.SafestRouteResult, error) {
	startName = strings.TrimSpace(startName)
	endName = strings.TrimSpace(endName)
	if startName == "" || endName == "" {
		return nil, ErrMissingLocation
	}

	start, err := s.resolve(ctx, startName)
	if err != nil {
		return nil, err
	}
	end, err := s.resolve(ctx, endName)
	if err != nil {
		return nil, err
	}

	routes := GenerateRoutes(start, end, s.offset)
	result, err := s.scorer.SelectSafest(routes, s.index)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"start":  startName,
		"end":    endName,
		"safest": result.Safest.Name,
		"score":  result.Safest.SafetyScore,
	}).Info("safest route selected")

	return result, nil
}

// ScoreRoutes selects the safest among caller-supplied routes. Waypoints must
// be valid WGS84 coordinates.
func (s *RouteService) ScoreRoutes(routes []entities.Route) (*entities.SafestRouteResult, error) {
	for _, r := range routes {
		for _, p := range r.Path {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("route %q: %w", r.Name, err)
			}
		}
	}

	result, err := s.scorer.SelectSafest(routes, s.index)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"routes": len(routes),
		"safest": result.Safest.Name,
		"score":  result.Safest.SafetyScore,
	}).Debug("scored supplied routes")

	return result, nil
}

// NearestReference exposes the index lookup for diagnostics.
func (s *RouteService) NearestReference(loc entities.Location) (entities.ReferencePoint, error) {
	if err := loc.Validate(); err != nil {
		return entities.ReferencePoint{}, err
	}
	return s.index.Nearest(loc.Latitude, loc.Longitude)
}

func (s *RouteService) resolve(ctx context.Context, place string) (entities.Location, error) {
	loc, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		s.log.WithError(err).WithField("place", place).Warn("geocoding failed")
		return entities.Location{}, fmt.Errorf("%w: %q: %w", ErrGeocodingFailed, place, err)
	}
	if err := loc.Validate(); err != nil {
		s.log.WithError(err).WithField("place", place).Warn("geocoder returned invalid coordinates")
		return entities.Location{}, fmt.Errorf("%w: %q: %w", ErrGeocodingFailed, place, err)
	}
	s.log.WithFields(logrus.Fields{
		"place": place,
		"lat":   loc.Latitude,
		"lng":   loc.Longitude,
	}).Debug("geocoded place")
	return loc, nil
}
