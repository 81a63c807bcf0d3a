package entities

// ReferencePoint is one row of the static safety dataset: a geotagged record
// with four attributes normalized to [0,1]. Higher lighting and crowd values
// are safer; higher police_distance and crime_rate values are less safe.
//
// Geohash is the cell the point falls in, computed once when the dataset is
// loaded. It is informational only and plays no part in nearest-point search.
type ReferencePoint struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Lighting       float64 `json:"lighting"`
	Crowd          float64 `json:"crowd"`
	PoliceDistance float64 `json:"police_distance"`
	CrimeRate      float64 `json:"crime_rate"`
	Geohash        string  `json:"geohash,omitempty"`
}

// Location returns the point's position.
func (p ReferencePoint) Location() Location {
	return NewLocation(p.Latitude, p.Longitude)
}
