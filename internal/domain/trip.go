// Package domain contains the core data types for the trip planner.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, routing, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: itineraries (one per day) belong to a trip.
// DestinationCity and DestinationCountry drive the dense-destination check used
// when inferring transport modes.
type Trip struct {
	ID                 uuid.UUID
	Name               string
	DestinationCity    string
	DestinationCountry string
	StartDate          time.Time
	EndDate            *time.Time // nil when the trip is open-ended
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DayDate returns the calendar date of the given 1-based day of the trip.
func (t Trip) DayDate(day int) time.Time {
	return t.StartDate.AddDate(0, 0, day-1)
}
