package utils

import (
	"math"
)

const (
	EarthRadiusKm = 6371.0
)

// RoundTo2 rounds x to two decimal places, halves away from zero
// (0.125 -> 0.13, -0.125 -> -0.13). All published safety scores and
// distances go through this one function so the rounding mode stays
// consistent across the service.
func RoundTo2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SquaredDegreeDistance is the planar (lat-lat0)^2 + (lon-lon0)^2 metric
// used for nearest reference point matching. It is not a geodesic distance.
func SquaredDegreeDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return dLat*dLat + dLon*dLon
}

// HaversineDistance calculates the distance between two points in kilometers
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
