package geofence

import (
	"math"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/geo"
)

// Service answers the geometric questions of the pipeline: which site a GPS
// fix belongs to, whether it falls inside the fence, and whether an entry
// reads as GPS noise.
type Service interface {
	// NearestSite picks the closest site to the fix. Sites without
	// coordinates rank at infinite distance, so they only win when no site
	// has a geofence at all (legacy fail-open behavior).
	NearestSite(sites []site.Site, lat, lon float64) (site.Site, float64, error)

	// WithinGeofence reports whether the fix falls inside the site's fence
	// and the distance to its center. Sites without coordinates accept any
	// fix at distance zero.
	WithinGeofence(s site.Site, defaultRadiusMeters int, lat, lon float64) (bool, float64)

	// IsNoise reports whether a repeated entry at the given distance from the
	// day's first real entry is a GPS glitch re-firing the fence rather than
	// a genuine re-arrival. Close to where the day started means noise; far
	// away means the employee actually moved and came back.
	IsNoise(distanceToFirstEntryMeters float64, thresholdMeters int) bool
}

type ServiceImpl struct{}

// NearestSite implements Service.
func (g *ServiceImpl) NearestSite(sites []site.Site, lat, lon float64) (site.Site, float64, error) {
	if len(sites) == 0 {
		return site.Site{}, 0, event.ErrNoActiveSites
	}

	best := sites[0]
	bestDist := math.Inf(1)
	if best.HasCoordinates() {
		bestDist = geo.HaversineDistance(lat, lon, *best.Latitude, *best.Longitude)
	}

	for _, s := range sites[1:] {
		dist := math.Inf(1)
		if s.HasCoordinates() {
			dist = geo.HaversineDistance(lat, lon, *s.Latitude, *s.Longitude)
		}
		if dist < bestDist {
			best = s
			bestDist = dist
		}
	}

	return best, bestDist, nil
}

// WithinGeofence implements Service.
func (g *ServiceImpl) WithinGeofence(s site.Site, defaultRadiusMeters int, lat, lon float64) (bool, float64) {
	if !s.HasCoordinates() {
		return true, 0
	}

	dist := geo.HaversineDistance(lat, lon, *s.Latitude, *s.Longitude)

	radius := defaultRadiusMeters
	if s.RadiusMeters != nil {
		radius = *s.RadiusMeters
	}

	return dist <= float64(radius), dist
}

// IsNoise implements Service.
func (g *ServiceImpl) IsNoise(distanceToFirstEntryMeters float64, thresholdMeters int) bool {
	return distanceToFirstEntryMeters <= float64(thresholdMeters)
}

func NewGeofenceService() Service {
	return &ServiceImpl{}
}
