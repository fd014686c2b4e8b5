package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known airport coordinates for testing
var (
	// TLL - Tallinn Lennart Meri Airport
	TLL = Coordinates{Lat: 59.41329956, Lon: 24.83279991}
	// TPE - Taiwan Taoyuan International Airport
	TPE = Coordinates{Lat: 25.0777, Lon: 121.233002}
	// JFK - New York John F. Kennedy International Airport
	JFK = Coordinates{Lat: 40.6413, Lon: -73.7781}
	// LAX - Los Angeles International Airport
	LAX = Coordinates{Lat: 33.9425, Lon: -118.4081}
	// SYD - Sydney Kingsford Smith Airport
	SYD = Coordinates{Lat: -33.9399, Lon: 151.1753}
)

func TestHaversineWithRadius_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		from      Coordinates
		to        Coordinates
		expected  float64 // kilometers on the equatorial radius
		tolerance float64
	}{
		{"JFK to LAX", JFK, LAX, 3988, 40},
		{"TLL to TPE", TLL, TPE, 7985, 1},
		{"Same location (JFK to JFK)", JFK, JFK, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance := HaversineWithRadius(tt.from.Lat, tt.from.Lon, tt.to.Lat, tt.to.Lon, EarthRadiusEquatorialKm)
			assert.InDelta(t, tt.expected, distance, tt.tolerance)
		})
	}
}

func TestRouteKm(t *testing.T) {
	assert.Equal(t, 7985, RouteKm(TLL, TPE))
	assert.Equal(t, RouteKm(TLL, TPE), RouteKm(TPE, TLL))
	assert.Equal(t, RouteKm(JFK, SYD), RouteKm(SYD, JFK))
	assert.Equal(t, 0, RouteKm(TLL, TLL))
}

func TestCoordinates_IsComplete(t *testing.T) {
	assert.True(t, JFK.IsComplete())
	assert.True(t, SYD.IsComplete())
	assert.False(t, Coordinates{0, 1}.IsComplete())
	assert.False(t, Coordinates{1, 0}.IsComplete())
	assert.False(t, Coordinates{}.IsComplete())
}

func BenchmarkRouteKm(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RouteKm(TLL, TPE)
	}
}
