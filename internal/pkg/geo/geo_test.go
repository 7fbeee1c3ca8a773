package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineDistance(51.5074, -0.1278, 51.5074, -0.1278))
}

func TestHaversineDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km everywhere on the sphere.
	dist := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, dist, 1112) // within 1%
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(53.8008, -1.5491, 53.7997, -1.5492)
	b := HaversineDistance(53.7997, -1.5492, 53.8008, -1.5491)
	assert.InDelta(t, a, b, 0.0001)
}

func TestHaversineDistance_ShortRange(t *testing.T) {
	// ~100 m north of the origin.
	dist := HaversineDistance(0, 0, 0.0009, 0)
	assert.InDelta(t, 100, dist, 1)
}
