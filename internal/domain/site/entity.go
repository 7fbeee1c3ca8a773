package site

import (
	"time"
)

// Site is a physical work location with an optional circular geofence.
// Sites without coordinates accept any check-in (fail open), preserved for
// backward compatibility with sites onboarded before GPS capture.
type Site struct {
	ID           string
	CompanyID    string
	Name         string
	ExternalCode *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *int
	IsActive     bool
	DeletedAt    *time.Time
}

// HasCoordinates reports whether the site has a geofence center.
func (s Site) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
