// Package geo holds the reference safety dataset and the geometry helpers
// around it: the SafetyIndex nearest-point lookup and geohash cell labels.
//
// Go Learning Note — What is a Geohash?
// A geohash encodes a latitude/longitude pair into a short base32 string by
// repeatedly bisecting the longitude and latitude ranges. Nearby points share
// a prefix, so the string works as a human-readable cell label:
//
//	5 → ~5 km    6 → ~1.2 km    7 → ~153 m    8 → ~19 m
//
// The safety index tags each reference point with its cell so API responses
// show where a matched record sits without the client re-deriving it.
package geo

import (
	"strings"
)

// base32 is the geohash alphabet; 'a', 'i', 'l' and 'o' are left out.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

const (
	defaultPrecision = 7
	maxPrecision     = 12
)

var base32Index = func() map[byte]int {
	m := make(map[byte]int, len(base32))
	for i := 0; i < len(base32); i++ {
		m[base32[i]] = i
	}
	return m
}()

// Encode converts latitude and longitude to a geohash of the given length.
// Precision outside [1,12] is clamped (values <= 0 use the default of 7).
//
// Bits alternate longitude (even) and latitude (odd); every five bits become
// one base32 character.
func Encode(lat, lon float64, precision int) string {
	if precision <= 0 {
		precision = defaultPrecision
	}
	if precision > maxPrecision {
		precision = maxPrecision
	}

	latRange := [2]float64{-90, 90}
	lonRange := [2]float64{-180, 180}

	var hash strings.Builder
	hash.Grow(precision)
	lonBit := true
	bit, ch := 0, 0

	for hash.Len() < precision {
		if lonBit {
			ch = bisect(&lonRange, lon, ch, bit)
		} else {
			ch = bisect(&latRange, lat, ch, bit)
		}
		lonBit = !lonBit
		if bit++; bit == 5 {
			hash.WriteByte(base32[ch])
			bit, ch = 0, 0
		}
	}
	return hash.String()
}

// bisect halves r toward v and sets the corresponding bit of ch when v lies
// in the upper half.
func bisect(r *[2]float64, v float64, ch, bit int) int {
	mid := (r[0] + r[1]) / 2
	if v >= mid {
		r[0] = mid
		return ch | 1<<(4-bit)
	}
	r[1] = mid
	return ch
}

// Decode returns the center of the cell a geohash names. Characters outside
// the alphabet are skipped.
func Decode(hash string) (lat, lon float64) {
	latRange := [2]float64{-90, 90}
	lonRange := [2]float64{-180, 180}
	lonBit := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Index[strings.ToLower(hash[i : i+1])[0]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			r := &latRange
			if lonBit {
				r = &lonRange
			}
			mid := (r[0] + r[1]) / 2
			if (cd>>j)&1 == 1 {
				r[0] = mid
			} else {
				r[1] = mid
			}
			lonBit = !lonBit
		}
	}

	return (latRange[0] + latRange[1]) / 2, (lonRange[0] + lonRange[1]) / 2
}
