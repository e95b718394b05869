package domain

import (
	"fmt"
	"strings"
)

// TransportMode is how a traveller gets from one itinerary item to the next.
type TransportMode string

const (
	TransportWalking   TransportMode = "walking"
	TransportDriving   TransportMode = "driving"
	TransportTransit   TransportMode = "transit"
	TransportBicycling TransportMode = "bicycling" // resolvable, never inferred
)

// ParseTransportMode validates s against the closed set of modes.
// The empty string is returned unchanged and means "no mode".
func ParseTransportMode(s string) (TransportMode, error) {
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "", TransportWalking, TransportDriving, TransportTransit, TransportBicycling:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown transport mode %q", ErrValidation, s)
}

// RouteEstimate is what a location resolver returns for one origin/destination pair.
type RouteEstimate struct {
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
}

// DistanceStatus records the outcome of the last distance annotation of an item.
// The starting item of a day carries the empty status.
type DistanceStatus string

const (
	// DistancePending means the item's predecessor changed and the stored
	// transport data has not been recomputed yet.
	DistancePending DistanceStatus = "pending"
	// DistanceResolved means the transport fields reflect the current predecessor.
	DistanceResolved DistanceStatus = "resolved"
	// DistanceSkipped means the item or its predecessor has no coordinates.
	DistanceSkipped DistanceStatus = "skipped"
	// DistanceFailed means the resolver returned an error; see DistanceError.
	DistanceFailed DistanceStatus = "failed"
)
