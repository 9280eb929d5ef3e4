// Package geo provides great-circle distance calculations.
package geo

import "math"

const (
	earthRadiusKm = 6371.0
	kmToMiles     = 0.621371
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point passes IsValidCoordinate.
func (p Point) Valid() bool {
	return IsValidCoordinate(p.Lat, p.Lng)
}

// MilesTo returns the distance from p to q in miles.
func (p Point) MilesTo(q Point) float64 {
	return DistanceMiles(p.Lat, p.Lng, q.Lat, q.Lng)
}

// IsValidCoordinate rejects NaN, infinities and out-of-range values.
func IsValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DistanceKm returns the haversine distance between two points in kilometers.
// Inputs are assumed valid; NaN input yields NaN. Callers check
// IsValidCoordinate first.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceMiles is DistanceKm converted to miles.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceKm(lat1, lng1, lat2, lng2) * kmToMiles
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
