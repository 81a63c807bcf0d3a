// Package entities defines the domain values of the safe-route service:
// waypoints, reference safety records and candidate routes. They carry no
// dependencies on HTTP, storage or the geocoder.
package entities

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude or longitude falls outside
// the WGS84 degree ranges.
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Location is a single (latitude, longitude) pair in degrees. Routes use it
// as a waypoint and the geocoder returns it for a resolved place name.
//
// Go Learning Note — Value Types:
// Location is 16 bytes and never mutated, so it is passed and returned by
// value everywhere. Copying it is cheaper than the pointer indirection and
// guarantees that no caller can change a waypoint another request holds.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewLocation creates a Location value from latitude and longitude.
func NewLocation(lat, lng float64) Location {
	return Location{
		Latitude:  lat,
		Longitude: lng,
	}
}

// Offset returns a copy shifted by the given degree deltas.
func (l Location) Offset(dLat, dLng float64) Location {
	return Location{
		Latitude:  l.Latitude + dLat,
		Longitude: l.Longitude + dLng,
	}
}

// Validate reports whether the location lies within lat [-90,90] and
// lng [-180,180]. NaN and ±Inf are rejected before the range checks since
// every comparison with NaN is false.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, l.Longitude)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, l.Longitude)
	}
	return nil
}
