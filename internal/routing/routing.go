// Package routing answers "how far and how long from A to B by mode M".
// GoogleResolver asks the Distance Matrix API, Estimator computes an offline
// straight-line estimate, and CachedResolver puts Redis in front of either.
package routing

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Resolver returns a route estimate for one origin/destination pair.
// Failures wrap domain.ErrDistanceUnavailable.
type Resolver interface {
	GetDistance(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteEstimate, error)
}

// FormatDuration renders seconds the way the Distance Matrix API does:
// "1 min", "25 mins", "1 hour 5 mins", "2 hours".
func FormatDuration(seconds int) string {
	mins := (seconds + 30) / 60
	if mins < 1 {
		mins = 1
	}
	h, m := mins/60, mins%60
	switch {
	case h == 0:
		return plural(m, "min")
	case m == 0:
		return plural(h, "hour")
	default:
		return plural(h, "hour") + " " + plural(m, "min")
	}
}

// FormatDistance renders meters as "850 m" below one kilometre and "4.2 km" above.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
