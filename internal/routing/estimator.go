package routing

import (
	"context"
	"math"

	"github.com/pkordes/trip-planner/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Average door-to-door speeds in km/h used by the Estimator.
var modeSpeeds = map[domain.TransportMode]float64{
	domain.TransportWalking:   5,
	domain.TransportBicycling: 15,
	domain.TransportDriving:   40,
	domain.TransportTransit:   25,
}

// Street networks are longer than the great-circle line.
const detourFactor = 1.3

// Estimator is an offline Resolver for deployments without a Maps API key.
// It never fails for a known mode.
type Estimator struct{}

// NewEstimator returns an Estimator.
func NewEstimator() Estimator { return Estimator{} }

// GetDistance returns the great-circle distance scaled by detourFactor and a
// duration derived from the mode's average speed.
func (Estimator) GetDistance(_ context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteEstimate, error) {
	speed, ok := modeSpeeds[mode]
	if !ok {
		speed = modeSpeeds[domain.TransportDriving]
	}

	meters := int(math.Round(haversine(from, to) * detourFactor))
	seconds := int(math.Round(float64(meters) / (speed * 1000 / 3600)))

	return domain.RouteEstimate{
		DistanceMeters:  meters,
		DistanceText:    FormatDistance(meters),
		DurationSeconds: seconds,
		DurationText:    FormatDuration(seconds),
	}, nil
}

// haversine returns the great-circle distance between a and b in meters.
func haversine(a, b domain.Coordinates) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
