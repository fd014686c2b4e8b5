// Package geo provides geographic distance calculations.
package geo

import "math"

// EarthRadiusEquatorialKm is the WGS-84 equatorial radius in kilometers.
// Route distances use it so they agree with common geodesy libraries.
const EarthRadiusEquatorialKm = 6378.137

// Coordinates represents a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// HaversineWithRadius calculates the great-circle distance using a custom radius.
func HaversineWithRadius(lat1, lon1, lat2, lon2, radius float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

// RouteKm returns the great-circle distance between two points rounded to
// whole kilometers, measured on the equatorial radius.
func RouteKm(from, to Coordinates) int {
	d := HaversineWithRadius(from.Lat, from.Lon, to.Lat, to.Lon, EarthRadiusEquatorialKm)
	return int(math.Round(d))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// IsComplete reports whether neither component is zero. Datasets encode a
// missing latitude or longitude as 0, so a single zero component is treated
// as unknown.
func (c Coordinates) IsComplete() bool {
	return c.Lat != 0 && c.Lon != 0
}
