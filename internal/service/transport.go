package service

import "github.com/pkordes/trip-planner/internal/domain"

// walkingThresholdMinutes is the first travel duration that is no longer walkable.
const walkingThresholdMinutes = 10

// ClassifyTransport picks a transport mode from a driving-time estimate.
// Legs shorter than ten minutes are walked; longer ones use transit in dense
// destinations and driving everywhere else. Bicycling is never inferred.
func ClassifyTransport(travelSeconds int, dense bool) domain.TransportMode {
	switch {
	case float64(travelSeconds)/60 < walkingThresholdMinutes:
		return domain.TransportWalking
	case dense:
		return domain.TransportTransit
	default:
		return domain.TransportDriving
	}
}
