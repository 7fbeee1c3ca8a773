package event

import "errors"

// Attendance event domain errors
var (
	ErrEventNotFound   = errors.New("attendance event not found")
	ErrOutsideGeofence = errors.New("you are outside the site geofence")
	ErrNoActiveSites   = errors.New("no active sites configured for this company")
	ErrDuplicateEvent  = errors.New("an identical event was already recorded")
)
