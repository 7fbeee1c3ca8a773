package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
)

func ptr[T any](v T) *T { return &v }

func fencedSite(id string, lat, lon float64, radius int) site.Site {
	return site.Site{
		ID:           id,
		CompanyID:    "company-1",
		Name:         id,
		Latitude:     ptr(lat),
		Longitude:    ptr(lon),
		RadiusMeters: ptr(radius),
		IsActive:     true,
	}
}

// ~50 m and ~200 m north of the origin, in decimal degrees.
const (
	deg50m  = 0.00045
	deg200m = 0.0018
)

func TestNearestSite_PicksClosest(t *testing.T) {
	svc := NewGeofenceService()

	near := fencedSite("near", 0, 0, 100)
	far := fencedSite("far", 1, 1, 100)

	got, dist, err := svc.NearestSite([]site.Site{far, near}, deg50m, 0)
	require.NoError(t, err)
	assert.Equal(t, "near", got.ID)
	assert.InDelta(t, 50, dist, 1)
}

func TestNearestSite_CoordinatedSiteBeatsLegacySite(t *testing.T) {
	svc := NewGeofenceService()

	legacy := site.Site{ID: "legacy", Name: "legacy", IsActive: true}
	fenced := fencedSite("fenced", 0, 0, 100)

	got, _, err := svc.NearestSite([]site.Site{legacy, fenced}, deg50m, 0)
	require.NoError(t, err)
	assert.Equal(t, "fenced", got.ID)
}

func TestNearestSite_OnlyLegacySites(t *testing.T) {
	svc := NewGeofenceService()

	legacy := site.Site{ID: "legacy", Name: "legacy", IsActive: true}

	got, dist, err := svc.NearestSite([]site.Site{legacy}, deg50m, 0)
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.ID)
	assert.True(t, math.IsInf(dist, 1))
}

func TestNearestSite_NoSites(t *testing.T) {
	svc := NewGeofenceService()

	_, _, err := svc.NearestSite(nil, 0, 0)
	assert.ErrorIs(t, err, event.ErrNoActiveSites)
}

func TestWithinGeofence(t *testing.T) {
	svc := NewGeofenceService()
	s := fencedSite("site", 0, 0, 100)

	inside, dist := svc.WithinGeofence(s, 100, deg50m, 0)
	assert.True(t, inside)
	assert.InDelta(t, 50, dist, 1)

	outside, dist := svc.WithinGeofence(s, 100, deg200m, 0)
	assert.False(t, outside)
	assert.InDelta(t, 200, dist, 2)
}

func TestWithinGeofence_DefaultRadius(t *testing.T) {
	svc := NewGeofenceService()
	s := fencedSite("site", 0, 0, 100)
	s.RadiusMeters = nil

	// ~200 m out: rejected by the 100 m default, accepted by a wider one.
	inside, _ := svc.WithinGeofence(s, 100, deg200m, 0)
	assert.False(t, inside)

	inside, _ = svc.WithinGeofence(s, 250, deg200m, 0)
	assert.True(t, inside)
}

func TestWithinGeofence_LegacySiteFailsOpen(t *testing.T) {
	svc := NewGeofenceService()
	legacy := site.Site{ID: "legacy", Name: "legacy", IsActive: true}

	inside, dist := svc.WithinGeofence(legacy, 100, 53.8008, -1.5491)
	assert.True(t, inside)
	assert.Equal(t, 0.0, dist)
}

func TestIsNoise(t *testing.T) {
	svc := NewGeofenceService()

	// A repeated entry near the day's first entry is a glitch; one far away
	// is a real re-arrival.
	assert.True(t, svc.IsNoise(50, 150))
	assert.True(t, svc.IsNoise(150, 150))
	assert.False(t, svc.IsNoise(200, 150))
}
