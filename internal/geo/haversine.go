// Package geo provides the small amount of spherical geometry the matching
// pipeline needs: great-circle distance and a grid cell for proximity
// grouping.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// GridCell buckets a coordinate onto the 4-decimal grid (a latitude cell is
// roughly 11 m) and returns the integer cell indices, for neighbor-cell
// iteration during deduplication.
func GridCell(lat, lng float64) (int64, int64) {
	return int64(math.Round(lat * 1e4)), int64(math.Round(lng * 1e4))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
